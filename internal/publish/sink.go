// Package publish delivers exported boards to where they are stored.
package publish

import (
	"context"
	"fmt"

	"github.com/alexanderramin/flowboard/internal/domain"
)

// BoardSink accepts a finished board. A nil error means the board is
// stored; any error means it must be treated as not created.
type BoardSink interface {
	Publish(ctx context.Context, b *domain.Board) error
}

// BoardWriter is the storage side of a RepoSink.
type BoardWriter interface {
	Create(ctx context.Context, b *domain.Board) error
}

// RepoSink stores boards through a repository.
type RepoSink struct {
	repo BoardWriter
}

func NewRepoSink(repo BoardWriter) *RepoSink {
	return &RepoSink{repo: repo}
}

func (s *RepoSink) Publish(ctx context.Context, b *domain.Board) error {
	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("storing board %s: %w", b.ID, err)
	}
	return nil
}

// Chain publishes to each sink in order and stops at the first failure.
// Nil sinks are ignored.
func Chain(sinks ...BoardSink) BoardSink {
	var live chain
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return live
}

type chain []BoardSink

func (c chain) Publish(ctx context.Context, b *domain.Board) error {
	for _, s := range c {
		if err := s.Publish(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
