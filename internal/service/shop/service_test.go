package shop

import (
	"context"
	"errors"
	"testing"

	"mini-shop/internal/domain"
)

type stubRepo struct {
	shops []domain.Shop
}

func (s stubRepo) ListActive(context.Context) ([]domain.Shop, error) {
	return s.shops, nil
}

func (s stubRepo) GetByID(_ context.Context, id string) (*domain.Shop, error) {
	for _, sh := range s.shops {
		if sh.ID == id {
			return &sh, nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestListNeverNil(t *testing.T) {
	shops, err := New(stubRepo{}).List(context.Background())
	if err != nil || shops == nil {
		t.Fatalf("expected empty slice, got %v %v", shops, err)
	}
}

func TestGet(t *testing.T) {
	svc := New(stubRepo{shops: []domain.Shop{{ID: "s1", Name: "Fresh"}}})
	sh, err := svc.Get(context.Background(), "s1")
	if err != nil || sh.Name != "Fresh" {
		t.Fatalf("Get: %v %+v", err, sh)
	}
	if _, err := svc.Get(context.Background(), "s2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
