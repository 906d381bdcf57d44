package service

import (
	"context"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/repository"
)

type boardService struct {
	boards repository.BoardRepo
}

func NewBoardService(boards repository.BoardRepo) BoardService {
	return &boardService{boards: boards}
}

func (s *boardService) Get(ctx context.Context, id string) (*domain.Board, error) {
	return s.boards.GetByID(ctx, id)
}

func (s *boardService) List(ctx context.Context) ([]repository.BoardSummary, error) {
	return s.boards.List(ctx)
}

func (s *boardService) ListByFlow(ctx context.Context, flowID string) ([]repository.BoardSummary, error) {
	return s.boards.ListBySourceFlow(ctx, flowID)
}

func (s *boardService) Delete(ctx context.Context, id string) error {
	return s.boards.Delete(ctx, id)
}
