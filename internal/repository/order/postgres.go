package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"
	"mini-shop/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const orderSelect = `
SELECT o.id::text, o.order_no, o.user_id::text, o.shop_id::text, o.items, o.total_amount, o.delivery_fee,
       o.discount, o.final_amount, o.status, o.payment_method, o.payment_status, o.shipping_address,
       o.contact_phone, o.qr_code, o.verification_token, o.version, o.created_at, o.updated_at,
       o.paid_at, o.completed_at, o.cancelled_at,
       s.name, s.logo, u.nick_name, u.avatar_url
FROM orders o
JOIN shops s ON s.id = o.shop_id
JOIN users u ON u.id = o.user_id
`

const orderNoConstraint = "orders_order_no_key"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: telemetry.OrNop(logger).Named("order_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (order_no, user_id, shop_id, items, total_amount, delivery_fee, discount, final_amount,
                    status, payment_method, payment_status, shipping_address, contact_phone, qr_code, verification_token)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q,
		o.OrderNo, o.UserID, o.ShopID, o.Items, o.TotalAmount, o.DeliveryFee, o.Discount, o.FinalAmount,
		o.Status, o.PaymentMethod, o.PaymentStatus, o.ShippingAddress, o.ContactPhone, o.QRCode, o.VerificationToken,
	).Scan(&id)
	if err != nil {
		if repository.IsUniqueViolation(err, orderNoConstraint) {
			r.logger.Info("order number collision", zap.String("order_no", o.OrderNo))
			return nil, ErrDuplicateOrderNo
		}
		err = repository.MapError(err)
		r.logger.Error("create", zap.String("order_no", o.OrderNo), zap.Error(err))
		return nil, err
	}
	r.logger.Info("created", zap.String("id", id), zap.String("order_no", o.OrderNo), zap.String("shop_id", o.ShopID))
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, orderSelect+`WHERE o.id = $1`, id))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return o, nil
}

func (r *postgresRepo) Save(ctx context.Context, o *domain.Order) error {
	const q = `
UPDATE orders
SET status = $3, payment_status = $4, paid_at = $5, completed_at = $6, cancelled_at = $7,
    version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2
RETURNING version, updated_at
`
	err := r.pool.QueryRow(ctx, q, o.ID, o.Version, o.Status, o.PaymentStatus, o.PaidAt, o.CompletedAt, o.CancelledAt).
		Scan(&o.Version, &o.UpdatedAt)
	if err == nil {
		r.logger.Debug("saved", zap.String("id", o.ID), zap.String("status", string(o.Status)), zap.Int("version", o.Version))
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return repository.MapError(err)
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists); err != nil {
		return repository.MapError(err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	r.logger.Warn("version conflict", zap.String("id", o.ID), zap.Int("version", o.Version))
	return domain.ErrConflict
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Order, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if f.ShopID != "" {
		args = append(args, f.ShopID)
		where = append(where, fmt.Sprintf("o.shop_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders o `+clause, args...).Scan(&total); err != nil {
		return nil, 0, repository.MapError(err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, f.Offset)
	q := orderSelect + clause + fmt.Sprintf("ORDER BY o.created_at DESC, o.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, repository.MapError(err)
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, repository.MapError(err)
	}
	return result, total, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                   domain.Order
		shop, user          domain.OrderParty
		shopLogo, avatarURL string
	)
	if err := row.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.ShopID, &o.Items, &o.TotalAmount, &o.DeliveryFee,
		&o.Discount, &o.FinalAmount, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.ShippingAddress,
		&o.ContactPhone, &o.QRCode, &o.VerificationToken, &o.Version, &o.CreatedAt, &o.UpdatedAt,
		&o.PaidAt, &o.CompletedAt, &o.CancelledAt,
		&shop.Name, &shopLogo, &user.Name, &avatarURL); err != nil {
		return nil, err
	}
	shop.ID, shop.Image = o.ShopID, shopLogo
	user.ID, user.Image = o.UserID, avatarURL
	o.Shop, o.User = &shop, &user
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return &o, nil
}
