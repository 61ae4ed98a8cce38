package user

import (
	"context"
	"errors"
	"testing"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository/repotest"
)

func TestPostgres_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.User{OpenID: "open-1", Phone: "13800000000"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.NickName != domain.DefaultNickName {
		t.Fatalf("expected default nickname, got %q", created.NickName)
	}

	if _, err := repo.Create(ctx, domain.User{OpenID: "open-2", Phone: "13800000000"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate phone to fail, got %v", err)
	}
	if _, err := repo.Create(ctx, domain.User{OpenID: "open-3"}); err != nil {
		t.Fatalf("empty phone must not collide: %v", err)
	}
	if _, err := repo.Create(ctx, domain.User{OpenID: "open-4"}); err != nil {
		t.Fatalf("empty phone must not collide: %v", err)
	}

	byOpen, err := repo.GetByOpenID(ctx, "open-1")
	if err != nil || byOpen.ID != created.ID {
		t.Fatalf("GetByOpenID: %v %+v", err, byOpen)
	}
	byPhone, err := repo.GetByPhone(ctx, "13800000000")
	if err != nil || byPhone.ID != created.ID {
		t.Fatalf("GetByPhone: %v %+v", err, byPhone)
	}
	if _, err := repo.GetByPhone(ctx, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected empty phone lookup to miss, got %v", err)
	}
}

func TestPostgres_ProfileAndAddresses(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repo := NewPostgres(pool, nil)
	id := repotest.User(t, pool, "open-1")

	nick := "Alice"
	updated, err := repo.UpdateProfile(ctx, id, ProfileUpdate{NickName: &nick})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.NickName != "Alice" || updated.AvatarURL != "" {
		t.Fatalf("unexpected profile %+v", updated)
	}

	saved, err := repo.SaveAddresses(ctx, id, []domain.Address{{
		ID: "a1", Name: "Alice", Phone: "13900000000", Region: []string{"广东省", "深圳市", "南山区"}, Detail: "1 Road", IsDefault: true,
	}})
	if err != nil {
		t.Fatalf("SaveAddresses: %v", err)
	}
	if len(saved.Addresses) != 1 || !saved.Addresses[0].IsDefault || len(saved.Addresses[0].Region) != 3 {
		t.Fatalf("unexpected addresses %+v", saved.Addresses)
	}
}
