package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderPreparing OrderStatus = "preparing"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// Valid reports whether s belongs to the order status domain.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderPreparing, OrderShipped, OrderCompleted, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayWechat PaymentMethod = "wechat"
	PayAlipay PaymentMethod = "alipay"
	PayCash   PaymentMethod = "cash"
	PayBank   PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayWechat, PayAlipay, PayCash, PayBank:
		return true
	}
	return false
}

// OrderItem is a frozen copy of a purchased product line.
type OrderItem struct {
	ProductID string                 `json:"productId"`
	Name      string                 `json:"name"`
	Price     decimal.Decimal        `json:"price"`
	Quantity  int                    `json:"quantity"`
	Specs     map[string]interface{} `json:"specs"`
	Image     string                 `json:"image"`
}

// ShippingAddress is the address snapshot taken at checkout.
type ShippingAddress struct {
	Name   string   `json:"name"`
	Phone  string   `json:"phone"`
	Region []string `json:"region"`
	Detail string   `json:"detail"`
}

// OrderParty is the display reference of a related shop or user.
type OrderParty struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Order struct {
	ID                string          `json:"id"`
	OrderNo           string          `json:"orderNo"`
	UserID            string          `json:"userId"`
	ShopID            string          `json:"shopId"`
	Items             []OrderItem     `json:"items"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DeliveryFee       decimal.Decimal `json:"deliveryFee"`
	Discount          decimal.Decimal `json:"discount"`
	FinalAmount       decimal.Decimal `json:"finalAmount"`
	Status            OrderStatus     `json:"status"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	ContactPhone      string          `json:"contactPhone"`
	QRCode            string          `json:"qrCode"`
	VerificationToken string          `json:"verificationToken"`
	Version           int             `json:"-"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	CancelledAt       *time.Time      `json:"cancelledAt,omitempty"`

	Shop *OrderParty `json:"shop,omitempty"`
	User *OrderParty `json:"user,omitempty"`
}

// ItemsTotal sums price×quantity over items.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// SetAmounts replaces the three monetary inputs and recomputes FinalAmount.
func (o *Order) SetAmounts(total, deliveryFee, discount decimal.Decimal) {
	o.TotalAmount = total
	o.DeliveryFee = deliveryFee
	o.Discount = discount
	o.Recalculate()
}

// Recalculate derives FinalAmount from the other monetary fields.
func (o *Order) Recalculate() {
	o.FinalAmount = o.TotalAmount.Add(o.DeliveryFee).Sub(o.Discount)
}

// TotalQuantity is the number of units across all items.
func (o Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ApplyStatus sets the status and stamps the timestamp tied to the target state.
// No transition table is enforced here.
func (o *Order) ApplyStatus(status OrderStatus, now time.Time) {
	o.Status = status
	switch status {
	case OrderPaid:
		o.PaidAt = &now
	case OrderCompleted:
		o.CompletedAt = &now
	case OrderCancelled:
		o.CancelledAt = &now
	}
}

// Cancellable reports whether the order may still be cancelled by its purchaser.
func (o Order) Cancellable() bool {
	return o.Status == OrderPending || o.Status == OrderPaid
}

// Cancel moves a pending or paid order to cancelled.
func (o *Order) Cancel(now time.Time) error {
	if !o.Cancellable() {
		return fmt.Errorf("cancel order in status %q: %w", o.Status, ErrInvalidState)
	}
	o.ApplyStatus(OrderCancelled, now)
	return nil
}

// ApplyPaymentStatus records a payment outcome. A successful payment stamps
// PaidAt and advances a still-pending order to paid.
func (o *Order) ApplyPaymentStatus(status PaymentStatus, now time.Time) {
	o.PaymentStatus = status
	if status != PaymentPaid {
		return
	}
	o.PaidAt = &now
	if o.Status == OrderPending {
		o.Status = OrderPaid
	}
}

// NewOrderNo formats a yyMMddHH (UTC) prefix followed by six random digits.
func NewOrderNo(now time.Time) string {
	return now.UTC().Format("06010215") + fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
