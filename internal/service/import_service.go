package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/importer"
	"github.com/alexanderramin/flowboard/internal/linking"
	"github.com/alexanderramin/flowboard/internal/repository"
)

type importService struct {
	templates repository.TemplateRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewImportService(templates repository.TemplateRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		templates: templates,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportDir(ctx context.Context, dir string) (*ImportResult, error) {
	b, err := importer.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading data directory: %w", err)
	}
	return s.importBundle(ctx, "import-dir", dir, b)
}

func (s *importService) ImportTemplates(ctx context.Context, path string) (*ImportResult, error) {
	doc, err := importer.LoadTemplates(path)
	if err != nil {
		return nil, fmt.Errorf("loading template file: %w", err)
	}
	return s.importBundle(ctx, "import-templates", path, &importer.Bundle{Templates: *doc})
}

// ImportFlows imports a workflows document, or a whole data directory when
// path is a directory.
func (s *importService) ImportFlows(ctx context.Context, path string) (*ImportResult, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return s.ImportDir(ctx, path)
	}
	doc, err := importer.LoadWorkflows(path)
	if err != nil {
		return nil, fmt.Errorf("loading workflow file: %w", err)
	}
	return s.importBundle(ctx, "import-flows", path, &importer.Bundle{Workflows: *doc})
}

func (s *importService) importBundle(ctx context.Context, name, source string, b *importer.Bundle) (res *ImportResult, err error) {
	fields := map[string]any{"source": source}
	defer observe(ctx, s.observer, name, fields)(&err)

	stored, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]*domain.Template, len(stored))
	for _, t := range stored {
		known[t.ID] = t
	}

	if errs := importer.ValidateBundle(b, known); len(errs) > 0 {
		return nil, formatValidationErrors("import", errs)
	}
	ds := importer.Convert(b, known, time.Now().UTC())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTemplates := repository.NewSQLiteTemplateRepo(tx)
		r := newTxRepos(tx)

		for _, t := range ds.Templates {
			if err := txTemplates.Upsert(ctx, t); err != nil {
				return fmt.Errorf("storing template %q: %w", t.Name, err)
			}
		}
		for _, f := range ds.Flows {
			if err := r.flows.Create(ctx, f); err != nil {
				return fmt.Errorf("storing flow %q: %w", f.Name, err)
			}
			if err := r.executions.Replace(ctx, f.ID, ds.Completions[f.ID]); err != nil {
				return fmt.Errorf("storing completion of flow %q: %w", f.Name, err)
			}
		}
		if len(ds.Links) == 0 {
			return nil
		}
		existing, err := r.links.List(ctx)
		if err != nil {
			return err
		}
		reg := linking.NewRegistry(append(existing, ds.Links...))
		return r.links.Replace(ctx, reg.Groups())
	})
	if err != nil {
		return nil, err
	}

	res = &ImportResult{Templates: len(ds.Templates), Flows: len(ds.Flows), Links: len(ds.Links)}
	fields["templates"] = res.Templates
	fields["flows"] = res.Flows
	fields["links"] = res.Links
	return res, nil
}
