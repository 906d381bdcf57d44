package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/repository"
)

type templateService struct {
	templates repository.TemplateRepo
	observer  UseCaseObserver
}

func NewTemplateService(templates repository.TemplateRepo, observers ...UseCaseObserver) TemplateService {
	return &templateService{
		templates: templates,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) Save(ctx context.Context, t *domain.Template) (err error) {
	defer observe(ctx, s.observer, "save-template", map[string]any{"template_id": t.ID})(&err)

	if err = t.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	return s.templates.Upsert(ctx, t)
}

func (s *templateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *templateService) List(ctx context.Context) ([]*domain.Template, error) {
	return s.templates.List(ctx)
}

func (s *templateService) EnsureDefault(ctx context.Context) (*domain.Template, error) {
	return ensureDefaultTemplate(ctx, s.templates)
}

func ensureDefaultTemplate(ctx context.Context, templates repository.TemplateRepo) (*domain.Template, error) {
	def := domain.DefaultEmptyTemplate()
	existing, err := templates.GetByID(ctx, def.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	def.IsDefault = true
	def.CreatedAt = time.Now().UTC()
	def.UpdatedAt = def.CreatedAt
	if err := templates.Upsert(ctx, def); err != nil {
		return nil, fmt.Errorf("storing default template: %w", err)
	}
	return def, nil
}
