package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository/repotest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newOrder(userID, shopID, orderNo string) domain.Order {
	o := domain.Order{
		OrderNo: orderNo,
		UserID:  userID,
		ShopID:  shopID,
		Items: []domain.OrderItem{
			{ProductID: uuid.NewString(), Name: "Apple", Price: decimal.RequireFromString("3.50"), Quantity: 2},
		},
		Status:            domain.OrderPending,
		PaymentMethod:     domain.PayWechat,
		PaymentStatus:     domain.PaymentPending,
		ShippingAddress:   domain.ShippingAddress{Name: "A", Phone: "13800000000", Region: []string{"a", "b", "c"}, Detail: "d"},
		ContactPhone:      "13800000000",
		VerificationToken: uuid.NewString(),
	}
	o.SetAmounts(domain.ItemsTotal(o.Items), decimal.Zero, decimal.Zero)
	return o
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	shopID := repotest.Shop(t, pool, "Shop")
	userID := repotest.User(t, pool, "open-1")
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, newOrder(userID, shopID, "25010112123456"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.FinalAmount.Equal(decimal.NewFromInt(7)) || created.Version != 1 {
		t.Fatalf("unexpected order %+v", created)
	}
	if created.Shop == nil || created.Shop.Name != "Shop" || created.User == nil {
		t.Fatalf("expected parties to be attached, got %+v %+v", created.Shop, created.User)
	}

	if _, err := repo.Create(ctx, newOrder(userID, shopID, "25010112123456")); !errors.Is(err, ErrDuplicateOrderNo) {
		t.Fatalf("expected duplicate order number, got %v", err)
	}
}

func TestPostgres_SaveCompareAndSet(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	shopID := repotest.Shop(t, pool, "Shop")
	userID := repotest.User(t, pool, "open-1")
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, newOrder(userID, shopID, "25010112000001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stale := *created

	created.ApplyStatus(domain.OrderPaid, time.Now())
	if err := repo.Save(ctx, created); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if created.Version != 2 {
		t.Fatalf("expected version 2, got %d", created.Version)
	}

	if err := stale.Cancel(time.Now()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := repo.Save(ctx, &stale); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for stale write, got %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.OrderPaid || got.PaidAt == nil || got.CancelledAt != nil {
		t.Fatalf("stale write must not land, got %+v", got)
	}

	missing := newOrder(userID, shopID, "x")
	missing.ID = uuid.NewString()
	if err := repo.Save(ctx, &missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_ListByUserAndShop(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	shopID := repotest.Shop(t, pool, "Shop")
	otherShop := repotest.Shop(t, pool, "Other")
	userID := repotest.User(t, pool, "open-1")
	repo := NewPostgres(pool, nil)

	for i, shop := range []string{shopID, shopID, otherShop} {
		if _, err := repo.Create(ctx, newOrder(userID, shop, "2501011200000"+string(rune('1'+i)))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, total, err := repo.List(ctx, ListFilter{UserID: userID, Limit: 2})
	if err != nil {
		t.Fatalf("List user: %v", err)
	}
	if total != 3 || len(mine) != 2 {
		t.Fatalf("expected page of 2 out of 3, got %d/%d", len(mine), total)
	}
	if mine[0].CreatedAt.Before(mine[1].CreatedAt) {
		t.Fatalf("expected newest first")
	}

	shopOrders, total, err := repo.List(ctx, ListFilter{ShopID: shopID, Status: domain.OrderPending, Limit: 10})
	if err != nil {
		t.Fatalf("List shop: %v", err)
	}
	if total != 2 || len(shopOrders) != 2 {
		t.Fatalf("expected 2 shop orders, got %d", total)
	}
}
