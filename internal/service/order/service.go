package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mini-shop/internal/domain"
	orderrepo "mini-shop/internal/repository/order"
	"mini-shop/internal/telemetry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxOrderNoAttempts bounds re-minting when a generated order number is already taken.
const maxOrderNoAttempts = 5

// ErrOrderNoExhausted is returned when every minted order number collided.
var ErrOrderNoExhausted = errors.New("could not allocate a unique order number")

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Save(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, int, error)
}

type Service struct {
	repo          orderRepo
	defaultShopID string
	logger        *zap.Logger
	now           func() time.Time
	newOrderNo    func(time.Time) string
	newToken      func() string
}

func New(repo orderRepo, defaultShopID string, logger *zap.Logger) *Service {
	return &Service{
		repo:          repo,
		defaultShopID: defaultShopID,
		logger:        telemetry.OrNop(logger).Named("order_service"),
		now:           time.Now,
		newOrderNo:    domain.NewOrderNo,
		newToken:      uuid.NewString,
	}
}

type ItemInput struct {
	ProductID string                 `json:"productId"`
	Name      string                 `json:"name"`
	Price     decimal.Decimal        `json:"price"`
	Quantity  int                    `json:"quantity"`
	Specs     map[string]interface{} `json:"specs"`
	Image     string                 `json:"image"`
}

type CreateInput struct {
	ShopID          string                 `json:"shopId"`
	Items           []ItemInput            `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	ContactPhone    string                 `json:"contactPhone"`
}

// Page is one slice of an order listing.
type Page struct {
	Orders     []domain.Order `json:"orders"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// Create places an order from caller-supplied item prices. Catalog prices
// and stock are not re-checked.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	shopID := strings.TrimSpace(in.ShopID)
	if shopID == "" {
		shopID = s.defaultShopID
	}
	if shopID == "" {
		return nil, domain.Invalid("shopId", "shopId required")
	}
	method := in.PaymentMethod
	if method == "" {
		method = domain.PayWechat
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		specs := it.Specs
		if specs == nil {
			specs = map[string]interface{}{}
		}
		items = append(items, domain.OrderItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Specs:     specs,
			Image:     it.Image,
		})
	}

	o := domain.Order{
		UserID:            userID,
		ShopID:            shopID,
		Items:             items,
		Status:            domain.OrderPending,
		PaymentMethod:     method,
		PaymentStatus:     domain.PaymentPending,
		ShippingAddress:   in.ShippingAddress,
		ContactPhone:      strings.TrimSpace(in.ContactPhone),
		VerificationToken: s.newToken(),
	}
	o.SetAmounts(domain.ItemsTotal(items), decimal.Zero, decimal.Zero)

	for attempt := 1; attempt <= maxOrderNoAttempts; attempt++ {
		o.OrderNo = s.newOrderNo(s.now())
		created, err := s.repo.Create(ctx, o)
		if err == nil {
			s.logger.Info("order placed",
				zap.String("order_no", created.OrderNo),
				zap.String("user_id", userID),
				zap.String("shop_id", shopID),
				zap.String("final_amount", created.FinalAmount.StringFixed(2)))
			return created, nil
		}
		if !errors.Is(err, orderrepo.ErrDuplicateOrderNo) {
			return nil, err
		}
		s.logger.Warn("order number collision, re-minting", zap.Int("attempt", attempt))
	}
	return nil, ErrOrderNoExhausted
}

// Get returns an order visible to the caller: its purchaser or the owning shop.
func (s *Service) Get(ctx context.Context, caller domain.User, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != caller.ID && !caller.OwnsShop(o.ShopID) {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, page, limit int) (*Page, error) {
	return s.list(ctx, orderrepo.ListFilter{UserID: userID}, page, limit)
}

// ListForShop lists the orders of the caller's shop, optionally filtered by status.
func (s *Service) ListForShop(ctx context.Context, caller domain.User, status domain.OrderStatus, page, limit int) (*Page, error) {
	if caller.ShopID == nil || *caller.ShopID == "" {
		return nil, fmt.Errorf("user %s has no shop: %w", caller.ID, domain.ErrForbidden)
	}
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("status", "unknown order status")
	}
	return s.list(ctx, orderrepo.ListFilter{ShopID: *caller.ShopID, Status: status}, page, limit)
}

// UpdateStatus lets the owning shop move an order to any status. The matching
// lifecycle timestamp is stamped on paid, completed and cancelled.
func (s *Service) UpdateStatus(ctx context.Context, caller domain.User, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("status", "unknown order status")
	}
	if caller.ShopID == nil || *caller.ShopID == "" {
		return nil, fmt.Errorf("user %s has no shop: %w", caller.ID, domain.ErrForbidden)
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.OwnsShop(o.ShopID) {
		return nil, fmt.Errorf("order %s belongs to another shop: %w", orderID, domain.ErrForbidden)
	}
	prev := o.Status
	o.ApplyStatus(status, s.now())
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("order status changed", zap.String("order_no", o.OrderNo),
		zap.String("from", string(prev)), zap.String("to", string(status)))
	return o, nil
}

// Cancel is the purchaser's cancellation, allowed only while pending or paid.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.ownOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("order cancelled", zap.String("order_no", o.OrderNo))
	return o, nil
}

// UpdatePayment records the purchaser's payment outcome.
func (s *Service) UpdatePayment(ctx context.Context, userID, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("paymentStatus", "unknown payment status")
	}
	o, err := s.ownOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	o.ApplyPaymentStatus(status, s.now())
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("payment status changed", zap.String("order_no", o.OrderNo), zap.String("payment_status", string(status)))
	return o, nil
}

func (s *Service) ownOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) list(ctx context.Context, f orderrepo.ListFilter, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit
	orders, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Page{
		Orders:     orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func validateCreate(in CreateInput) error {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}
	if len(in.Items) == 0 {
		add("items", "at least one item required")
	}
	for i, it := range in.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if strings.TrimSpace(it.ProductID) == "" {
			add(prefix+"productId", "productId required")
		}
		if strings.TrimSpace(it.Name) == "" {
			add(prefix+"name", "name required")
		}
		if it.Price.IsNegative() {
			add(prefix+"price", "price must not be negative")
		} else if it.Price.Exponent() < -2 && !it.Price.Equal(it.Price.Round(2)) {
			add(prefix+"price", "price allows at most 2 decimal places")
		}
		if it.Quantity < 1 {
			add(prefix+"quantity", "quantity must be at least 1")
		}
	}
	addr := in.ShippingAddress
	if strings.TrimSpace(addr.Name) == "" {
		add("shippingAddress.name", "name required")
	}
	if strings.TrimSpace(addr.Phone) == "" {
		add("shippingAddress.phone", "phone required")
	}
	if len(addr.Region) < domain.MinRegionParts {
		add("shippingAddress.region", "region needs province, city and district")
	}
	if strings.TrimSpace(addr.Detail) == "" {
		add("shippingAddress.detail", "detail required")
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		add("paymentMethod", "unknown payment method")
	}
	if strings.TrimSpace(in.ContactPhone) == "" {
		add("contactPhone", "contactPhone required")
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
