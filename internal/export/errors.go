package export

import "errors"

type ErrorCode string

const (
	ErrMissingBoardName      ErrorCode = "MISSING_BOARD_NAME"
	ErrNoTagSelected         ErrorCode = "NO_TAG_SELECTED"
	ErrEmptySelection        ErrorCode = "EMPTY_SELECTION"
	ErrInvalidScope          ErrorCode = "INVALID_SCOPE"
	ErrInvalidReferenceLevel ErrorCode = "INVALID_REFERENCE_LEVEL"
	ErrInvalidNodeType       ErrorCode = "INVALID_NODE_TYPE"
	ErrInvalidColumn         ErrorCode = "INVALID_COLUMN"
	ErrEmptyResult           ErrorCode = "EMPTY_RESULT"
)

// Error reports a rejected export. Field names the configuration field the
// caller should prompt for again; it is empty for result errors.
type Error struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches any *Error with the same code, so callers can test with
// errors.Is(err, &export.Error{Code: export.ErrEmptyResult}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// IsConfigError reports whether err rejects the configuration itself, as
// opposed to the result of applying it.
func IsConfigError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Field != ""
}

// CodeOf returns the code of an export error, or "" for any other error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
