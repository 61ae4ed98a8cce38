package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mini-shop/internal/domain"
	cartrepo "mini-shop/internal/repository/cart"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	AddLine(ctx context.Context, in cartrepo.AddLineInput) (*domain.CartLine, error)
	GetForUser(ctx context.Context, userID, id string) (*domain.CartLine, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

type AddInput struct {
	ProductID string                 `json:"productId"`
	Quantity  *int                   `json:"quantity"`
	Specs     map[string]interface{} `json:"specs"`
}

// Add puts a product into the user's cart. A repeat add of the same product
// increments the existing line instead of creating a second one. Stock is
// not checked here.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.CartLine, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, domain.Invalid("productId", "productId required")
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity", "quantity must be at least 1")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.AddLine(ctx, cartrepo.AddLineInput{
		UserID:       userID,
		ProductID:    product.ID,
		Quantity:     quantity,
		Specs:        in.Specs,
		Price:        product.Price,
		ProductName:  product.Name,
		ProductImage: product.CoverImage,
	})
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateQuantity sets an absolute quantity on one of the user's lines. The
// quantity may not exceed the product's current stock.
func (s *Service) UpdateQuantity(ctx context.Context, userID, cartID string, quantity int) (*domain.CartLine, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, domain.Invalid("cartId", "cartId required")
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity", "quantity must be at least 1")
	}
	line, err := s.repo.GetForUser(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	if line.Product != nil && quantity > line.Product.Stock {
		return nil, fmt.Errorf("requested %d, %d in stock: %w", quantity, line.Product.Stock, domain.ErrInsufficientStock)
	}
	return s.repo.SetQuantity(ctx, userID, cartID, quantity)
}

func (s *Service) Remove(ctx context.Context, userID, cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return domain.Invalid("cartId", "cartId required")
	}
	return s.repo.Delete(ctx, userID, cartID)
}

// RemoveMany deletes the listed lines that belong to the user and reports
// how many were removed. Unknown or foreign ids are skipped silently.
func (s *Service) RemoveMany(ctx context.Context, userID string, cartIDs []string) (int64, error) {
	ids := make([]string, 0, len(cartIDs))
	for _, id := range cartIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, domain.Invalid("cartIds", "cartIds must be a non-empty list")
	}
	return s.repo.DeleteMany(ctx, userID, ids)
}
