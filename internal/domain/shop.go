package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shop statuses.
const (
	ShopActive    = "active"
	ShopInactive  = "inactive"
	ShopSuspended = "suspended"
)

type BusinessHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type DeliverySettings struct {
	MinFreeOrder   decimal.Decimal `json:"minFreeOrder"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	DeliveryRadius int             `json:"deliveryRadius"`
}

type Shop struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Logo          string           `json:"logo"`
	Contact       string           `json:"contact"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	BusinessHours BusinessHours    `json:"businessHours"`
	Status        string           `json:"status"`
	Delivery      DeliverySettings `json:"deliverySettings"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// IsOpen reports whether now (formatted as HH:MM) falls inside the business hours.
func (s Shop) IsOpen(now time.Time) bool {
	if s.BusinessHours.Open == "" || s.BusinessHours.Close == "" {
		return false
	}
	current := now.Format("15:04")
	return current >= s.BusinessHours.Open && current <= s.BusinessHours.Close
}
