package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"gigcity/internal/domain"
)

type paymentOrderRepository struct {
	DB *sql.DB
}

func NewPaymentOrderRepository(db *sql.DB) domain.PaymentOrderRepository {
	return &paymentOrderRepository{
		DB: db,
	}
}

func (r *paymentOrderRepository) Create(ctx context.Context, o *domain.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (gateway_order_id, event_id, user_id, quantity, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		o.GatewayOrderID, o.EventID, o.UserID, o.Quantity, o.Amount.String(), o.Currency, o.CreatedAt,
	).Scan(&o.ID)
}

func (r *paymentOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.PaymentOrder, error) {
	query := `
		SELECT id, gateway_order_id, event_id, user_id, quantity, amount, currency, created_at
		FROM payment_orders
		WHERE gateway_order_id = $1
	`
	o := &domain.PaymentOrder{}
	var amountStr string
	err := r.DB.QueryRowContext(ctx, query, gatewayOrderID).Scan(
		&o.ID, &o.GatewayOrderID, &o.EventID, &o.UserID, &o.Quantity, &amountStr, &o.Currency, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse order amount: %w", err)
	}
	o.Amount = amount
	return o, nil
}
