package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// BoardSummary is a listing view of a stored board.
type BoardSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SourceFlowID string    `json:"sourceFlowId"`
	CardCount    int       `json:"cardCount"`
	DynamicCount int       `json:"dynamicCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TemplateRepo interface {
	Upsert(ctx context.Context, t *domain.Template) error
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context) ([]*domain.Template, error)
	Delete(ctx context.Context, id string) error
}

type FlowRepo interface {
	Create(ctx context.Context, f *domain.Flow) error
	GetByID(ctx context.Context, id string) (*domain.Flow, error)
	List(ctx context.Context) ([]*domain.Flow, error)
	Update(ctx context.Context, f *domain.Flow) error
	UpdateData(ctx context.Context, id string, data []*domain.Node, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepo stores per-flow completion maps.
type ExecutionRepo interface {
	Get(ctx context.Context, flowID string) (domain.Completion, error)
	Set(ctx context.Context, flowID, nodeID string, done bool) error
	Replace(ctx context.Context, flowID string, c domain.Completion) error
}

type LinkGroupRepo interface {
	List(ctx context.Context) ([]domain.LinkGroup, error)
	Replace(ctx context.Context, groups []domain.LinkGroup) error
}

type BoardRepo interface {
	Create(ctx context.Context, b *domain.Board) error
	GetByID(ctx context.Context, id string) (*domain.Board, error)
	List(ctx context.Context) ([]BoardSummary, error)
	ListBySourceFlow(ctx context.Context, flowID string) ([]BoardSummary, error)
	Delete(ctx context.Context, id string) error
}
