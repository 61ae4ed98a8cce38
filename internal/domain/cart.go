package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, product) pairing awaiting checkout. Price, name and
// image are copied from the product when the line is first created.
type CartLine struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"userId"`
	ProductID    string                 `json:"-"`
	Quantity     int                    `json:"quantity"`
	Specs        map[string]interface{} `json:"specs"`
	Price        decimal.Decimal        `json:"price"`
	ProductName  string                 `json:"productName"`
	ProductImage string                 `json:"productImage"`
	Product      *CartProduct           `json:"productId,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// CartProduct is the live product view attached to a cart line for display.
type CartProduct struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CoverImage string          `json:"coverImage"`
	Stock      int             `json:"stock"`
}
