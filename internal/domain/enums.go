package domain

// Scope selects which nodes of a flow take part in an export.
type Scope string

const (
	ScopeFull    Scope = "full"
	ScopePartial Scope = "partial"
	ScopeTag     Scope = "tag"
)

// ValidScopes is the canonical set of accepted scope strings.
var ValidScopes = map[Scope]bool{
	ScopeFull: true, ScopePartial: true, ScopeTag: true,
}

// DynamicListType is the role a node plays in a board's dynamic list.
type DynamicListType string

const (
	DynamicTask       DynamicListType = "task"
	DynamicConnection DynamicListType = "connection"
	DynamicSkip       DynamicListType = "skip"
)

// ValidDynamicListTypes is the canonical set of accepted dynamic list types.
var ValidDynamicListTypes = map[DynamicListType]bool{
	DynamicTask: true, DynamicConnection: true, DynamicSkip: true,
}

// ColumnKey identifies one of the fixed work columns of an exported board.
type ColumnKey string

const (
	ColumnNone       ColumnKey = ""
	ColumnTodo       ColumnKey = "todo"
	ColumnInProgress ColumnKey = "in-progress"
	ColumnReview     ColumnKey = "review"
	ColumnDone       ColumnKey = "done"
)

// ValidColumnKeys is the canonical set of column keys a node may be assigned to.
var ValidColumnKeys = map[ColumnKey]bool{
	ColumnTodo: true, ColumnInProgress: true, ColumnReview: true, ColumnDone: true,
}

// ColumnName returns the display name of the board column behind a key.
// Unknown keys are returned unchanged.
func (k ColumnKey) ColumnName() string {
	switch k {
	case ColumnTodo:
		return ColumnNameTodo
	case ColumnInProgress:
		return ColumnNameInProgress
	case ColumnReview:
		return ColumnNameReview
	case ColumnDone:
		return ColumnNameDone
	default:
		return string(k)
	}
}

const (
	ColumnNameReferences = "References"
	ColumnNameTodo       = "To Do"
	ColumnNameInProgress = "In Progress"
	ColumnNameReview     = "Review"
	ColumnNameDone       = "Done"
)

type AttachmentType string

const (
	AttachmentComment AttachmentType = "comment"
	AttachmentNote    AttachmentType = "note"
	AttachmentLink    AttachmentType = "link"
	AttachmentImage   AttachmentType = "image"
)
