package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSpec is one selectable dimension of a product, e.g. weight or origin.
type ProductSpec struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Product struct {
	ID            string           `json:"id"`
	ShopID        string           `json:"shopId"`
	CategoryID    string           `json:"categoryId"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	CoverImage    string           `json:"coverImage,omitempty"`
	Images        []string         `json:"images"`
	Stock         int              `json:"stock"`
	Sales         int              `json:"sales"`
	Specs         []ProductSpec    `json:"specs"`
	IsRecommend   bool             `json:"isRecommend"`
	IsOnSale      bool             `json:"isOnSale"`
	CreatedAt     time.Time        `json:"createdAt"`
}
