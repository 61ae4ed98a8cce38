package banner

import (
	"context"
	"errors"
	"testing"
	"time"

	"mini-shop/internal/domain"
)

type stubRepo struct {
	created   *domain.Banner
	updated   *domain.Banner
	existing  map[string]domain.Banner
	activeArg string
	activeAt  time.Time
}

func (s *stubRepo) ListActive(_ context.Context, shopID string, now time.Time) ([]domain.Banner, error) {
	s.activeArg, s.activeAt = shopID, now
	return []domain.Banner{}, nil
}

func (s *stubRepo) ListAll(_ context.Context, _ string) ([]domain.Banner, error) {
	return []domain.Banner{}, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Banner, error) {
	b, ok := s.existing[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *stubRepo) Create(_ context.Context, b domain.Banner) (*domain.Banner, error) {
	s.created = &b
	return &b, nil
}

func (s *stubRepo) Update(_ context.Context, b domain.Banner) (*domain.Banner, error) {
	s.updated = &b
	return &b, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.existing[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateForcesDefaultShop(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, "shop-1")
	b, err := svc.Create(context.Background(), Input{ImageURL: ptr("/uploads/a.png"), LinkType: ptr("product"), LinkTarget: ptr("p1")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ShopID != "shop-1" || !b.IsActive || b.LinkType != "product" {
		t.Fatalf("unexpected banner %+v", b)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{}, "shop-1")
	ctx := context.Background()
	if _, err := svc.Create(ctx, Input{}); !domain.IsValidation(err) {
		t.Fatalf("expected missing image validation, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{ImageURL: ptr("x"), LinkType: ptr("page")}); !domain.IsValidation(err) {
		t.Fatalf("expected link type validation, got %v", err)
	}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	if _, err := svc.Create(ctx, Input{ImageURL: ptr("x"), StartDate: &start, EndDate: &end}); !domain.IsValidation(err) {
		t.Fatalf("expected window validation, got %v", err)
	}
	if _, err := New(&stubRepo{}, "").Create(ctx, Input{ImageURL: ptr("x")}); !domain.IsValidation(err) {
		t.Fatalf("expected unconfigured shop validation, got %v", err)
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	repo := &stubRepo{existing: map[string]domain.Banner{
		"b1": {ID: "b1", ShopID: "shop-1", ImageURL: "/a.png", Title: "Old", SortOrder: 2, IsActive: true},
	}}
	svc := New(repo, "shop-1")
	ctx := context.Background()

	b, err := svc.Update(ctx, "b1", Input{Title: ptr("New"), IsActive: ptr(false)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b.ImageURL != "/a.png" || b.Title != "New" || b.SortOrder != 2 || b.IsActive {
		t.Fatalf("unexpected update %+v", b)
	}
	if _, err := svc.Update(ctx, "nope", Input{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListActiveUsesClock(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, "shop-1")
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	if _, err := svc.ListActive(context.Background()); err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if repo.activeArg != "shop-1" || !repo.activeAt.Equal(fixed) {
		t.Fatalf("unexpected args %s %s", repo.activeArg, repo.activeAt)
	}
}
