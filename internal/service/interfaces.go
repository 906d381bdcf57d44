package service

import (
	"context"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/alexanderramin/flowboard/internal/linking"
	"github.com/alexanderramin/flowboard/internal/repository"
)

type TemplateService interface {
	Save(ctx context.Context, t *domain.Template) error
	Get(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context) ([]*domain.Template, error)
	// EnsureDefault stores the built-in empty template when it is missing.
	EnsureDefault(ctx context.Context) (*domain.Template, error)
}

type FlowService interface {
	Create(ctx context.Context, name, templateID string) (*domain.Flow, error)
	Get(ctx context.Context, id string) (*domain.Flow, error)
	List(ctx context.Context) ([]*domain.Flow, error)
	Completion(ctx context.Context, id string) (domain.Completion, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error

	Copy(ctx context.Context, sourceID, name string) (*domain.Flow, error)
	CreateLinked(ctx context.Context, sourceID, name string) (*LinkedFlow, error)
	Unlink(ctx context.Context, id string) error
	LinkGroup(ctx context.Context, id string) (domain.LinkGroup, bool, error)

	SaveStructure(ctx context.Context, id string, data []*domain.Node) (*SaveResult, error)
	Propagate(ctx context.Context, id string) (*SaveResult, error)
	SetCompletion(ctx context.Context, flowID, nodeID string, done bool) error
}

type ImportService interface {
	ImportDir(ctx context.Context, dir string) (*ImportResult, error)
	ImportTemplates(ctx context.Context, path string) (*ImportResult, error)
	ImportFlows(ctx context.Context, path string) (*ImportResult, error)
}

type ExportService interface {
	NewSession(ctx context.Context, flowID string) (*export.Session, error)
	Preview(ctx context.Context, flowID string, cfg export.Config) (export.Summary, error)
	Export(ctx context.Context, flowID string, cfg export.Config) (*domain.Board, error)
}

type BoardService interface {
	Get(ctx context.Context, id string) (*domain.Board, error)
	List(ctx context.Context) ([]repository.BoardSummary, error)
	ListByFlow(ctx context.Context, flowID string) ([]repository.BoardSummary, error)
	Delete(ctx context.Context, id string) error
}

// LinkedFlow is a new flow created linked to an existing one.
type LinkedFlow struct {
	Flow    *domain.Flow
	GroupID string
}

// SaveResult reports what a structure save touched.
type SaveResult struct {
	Flow    *domain.Flow
	Updated []string
	Skipped []linking.Skip
}

type ImportResult struct {
	Templates int
	Flows     int
	Links     int
}
