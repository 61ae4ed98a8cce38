package shop

import (
	"context"

	"mini-shop/internal/domain"
)

type shopStore interface {
	ListActive(ctx context.Context) ([]domain.Shop, error)
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
}

type Service struct {
	repo shopStore
}

func New(repo shopStore) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Shop, error) {
	shops, err := s.repo.ListActive(ctx)
	if shops == nil && err == nil {
		shops = []domain.Shop{}
	}
	return shops, err
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Shop, error) {
	return s.repo.GetByID(ctx, id)
}
