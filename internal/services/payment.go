package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"gigcity/internal/domain"
)

type paymentService struct {
	eventRepo domain.EventRepository
	orderRepo domain.PaymentOrderRepository
	gateway   domain.PaymentGateway
	currency  string
	logger    *slog.Logger
}

// NewPaymentService creates the order-creation service for paid tickets.
func NewPaymentService(
	eventRepo domain.EventRepository,
	orderRepo domain.PaymentOrderRepository,
	gateway domain.PaymentGateway,
	currency string,
	logger *slog.Logger,
) domain.PaymentService {
	return &paymentService{
		eventRepo: eventRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		currency:  currency,
		logger:    logger,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, eventID, userID string, quantity int) (*domain.GatewayOrder, error) {
	if quantity < 1 || quantity > domain.MaxTicketsPerRequest {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID == userID {
		return nil, domain.ErrForbidden
	}
	if event.Free() {
		// Free events are joined directly; there is nothing to charge.
		return nil, domain.ErrInvalidInput
	}

	amount := event.Price.Mul(decimal.NewFromInt(int64(quantity)))
	receipt := fmt.Sprintf("evt_%s_usr_%s", eventID, userID)
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amount, s.currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	order := &domain.PaymentOrder{
		GatewayOrderID: gatewayOrder.ID,
		EventID:        eventID,
		UserID:         userID,
		Quantity:       quantity,
		Amount:         amount,
		Currency:       s.currency,
		CreatedAt:      time.Now(),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("record payment order: %w", err)
	}

	s.logger.Info("payment order created", "event_id", eventID, "user_id", userID, "order_id", gatewayOrder.ID, "quantity", quantity)
	return gatewayOrder, nil
}
