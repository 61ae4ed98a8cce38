package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository/repotest"

	"github.com/shopspring/decimal"
)

func TestPostgres_AddLineMergesByProduct(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	shopID := repotest.Shop(t, pool, "Shop")
	catID := repotest.Category(t, pool, shopID, "Fruit")
	productID := repotest.Product(t, pool, shopID, catID, "Apple", "3.50", 10)
	userID := repotest.User(t, pool, "open-1")
	repo := NewPostgres(pool, nil)

	first, err := repo.AddLine(ctx, AddLineInput{
		UserID: userID, ProductID: productID, Quantity: 2, Specs: map[string]interface{}{"size": "L"},
		Price: decimal.RequireFromString("3.50"), ProductName: "Apple", ProductImage: "/img/Apple",
	})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if first.Quantity != 2 || first.Product == nil || first.Product.Stock != 10 {
		t.Fatalf("unexpected first line %+v", first)
	}

	// Price and name of a later add are ignored; specs nil keeps the old specs.
	second, err := repo.AddLine(ctx, AddLineInput{
		UserID: userID, ProductID: productID, Quantity: 3, Price: decimal.RequireFromString("9.99"), ProductName: "Renamed",
	})
	if err != nil {
		t.Fatalf("AddLine merge: %v", err)
	}
	if second.ID != first.ID || second.Quantity != 5 {
		t.Fatalf("expected merged line with quantity 5, got %+v", second)
	}
	if !second.Price.Equal(decimal.RequireFromString("3.5")) || second.ProductName != "Apple" {
		t.Fatalf("snapshot must be kept, got %+v", second)
	}
	if second.Specs["size"] != "L" {
		t.Fatalf("expected specs to be kept, got %v", second.Specs)
	}

	lines, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
}

func TestPostgres_AddLineConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	shopID := repotest.Shop(t, pool, "Shop")
	catID := repotest.Category(t, pool, shopID, "Fruit")
	productID := repotest.Product(t, pool, shopID, catID, "Apple", "3.50", 10)
	userID := repotest.User(t, pool, "open-1")
	repo := NewPostgres(pool, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddLine(ctx, AddLineInput{UserID: userID, ProductID: productID, Quantity: 1, Price: decimal.RequireFromString("3.50"), ProductName: "Apple"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AddLine: %v", err)
		}
	}

	lines, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != workers {
		t.Fatalf("expected one line with quantity %d, got %+v", workers, lines)
	}
}

func TestPostgres_OwnershipAndDelete(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	shopID := repotest.Shop(t, pool, "Shop")
	catID := repotest.Category(t, pool, shopID, "Fruit")
	p1 := repotest.Product(t, pool, shopID, catID, "Apple", "3.50", 10)
	p2 := repotest.Product(t, pool, shopID, catID, "Pear", "2.00", 10)
	owner := repotest.User(t, pool, "open-1")
	stranger := repotest.User(t, pool, "open-2")
	repo := NewPostgres(pool, nil)

	l1, err := repo.AddLine(ctx, AddLineInput{UserID: owner, ProductID: p1, Quantity: 1, Price: decimal.RequireFromString("3.50"), ProductName: "Apple"})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	l2, err := repo.AddLine(ctx, AddLineInput{UserID: owner, ProductID: p2, Quantity: 1, Price: decimal.RequireFromString("2.00"), ProductName: "Pear"})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if _, err := repo.GetForUser(ctx, stranger, l1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected foreign line to be hidden, got %v", err)
	}
	if _, err := repo.SetQuantity(ctx, stranger, l1.ID, 4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected foreign update to miss, got %v", err)
	}
	if err := repo.Delete(ctx, stranger, l1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected foreign delete to miss, got %v", err)
	}

	n, err := repo.DeleteMany(ctx, owner, []string{l1.ID, l2.ID, "00000000-0000-0000-0000-000000000000"})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
}
