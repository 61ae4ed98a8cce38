package cart

import (
	"context"

	"mini-shop/internal/domain"

	"github.com/shopspring/decimal"
)

// AddLineInput describes a cart addition. Specs nil keeps the specs of an
// existing line. Price, name and image are only used when a new line is created.
type AddLineInput struct {
	UserID       string
	ProductID    string
	Quantity     int
	Specs        map[string]interface{}
	Price        decimal.Decimal
	ProductName  string
	ProductImage string
}

type Repository interface {
	// AddLine inserts a line or increments the quantity of the existing
	// (user, product) line in a single statement.
	AddLine(ctx context.Context, in AddLineInput) (*domain.CartLine, error)
	GetForUser(ctx context.Context, userID, id string) (*domain.CartLine, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
}
