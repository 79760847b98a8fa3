package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gigcity/internal/domain"
	"gigcity/internal/monitoring"
)

// dispatchTimeout bounds the detached notification send.
const dispatchTimeout = 30 * time.Second

type ticketingService struct {
	eventRepo  domain.EventRepository
	ticketRepo domain.TicketRepository
	userRepo   domain.UserRepository
	orderRepo  domain.PaymentOrderRepository
	verifier   domain.SignatureVerifier
	dispatcher domain.NotificationDispatcher
	logger     *slog.Logger
}

// NewTicketingService creates the ticket issuance service.
func NewTicketingService(
	eventRepo domain.EventRepository,
	ticketRepo domain.TicketRepository,
	userRepo domain.UserRepository,
	orderRepo domain.PaymentOrderRepository,
	verifier domain.SignatureVerifier,
	dispatcher domain.NotificationDispatcher,
	logger *slog.Logger,
) domain.TicketingService {
	return &ticketingService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		verifier:   verifier,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *ticketingService) IssueFree(ctx context.Context, eventID, userID, userName string) (*domain.Ticket, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.Free() {
		return nil, domain.ErrPaymentRequired
	}

	ticket := &domain.Ticket{
		ID:         uuid.NewString(),
		EventID:    eventID,
		UserID:     userID,
		HolderName: userName,
		Kind:       domain.TicketKindFree,
		Status:     domain.TicketStatusPending,
		CreatedAt:  time.Now(),
	}

	// Capacity, ownership and one-free-ticket-per-user are all enforced by
	// the conditional append; no check-then-act here.
	if err := s.ticketRepo.AppendTickets(ctx, eventID, userID, []*domain.Ticket{ticket}); err != nil {
		return nil, err
	}
	s.afterIssue(event, userID, []*domain.Ticket{ticket})
	return ticket, nil
}

func (s *ticketingService) IssuePaid(ctx context.Context, eventID, userID, userName string, quantity int, proof *domain.PaymentProof) ([]*domain.Ticket, error) {
	if quantity < 1 || quantity > domain.MaxTicketsPerRequest {
		return nil, domain.ErrInvalidInput
	}
	if proof == nil || proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return nil, domain.ErrPaymentRequired
	}

	// Signature first: nothing is written until the gateway's confirmation
	// checks out.
	if err := s.verifier.Verify(proof.OrderID, proof.PaymentID, proof.Signature); err != nil {
		monitoring.PaymentRejections.Inc()
		return nil, err
	}

	order, err := s.orderRepo.GetByGatewayOrderID(ctx, proof.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("get payment order: %w", err)
	}
	// The proof must match the order it was created for.
	if order.EventID != eventID || order.UserID != userID || order.Quantity != quantity {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Free() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	tickets := make([]*domain.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		tickets = append(tickets, &domain.Ticket{
			ID:         uuid.NewString(),
			EventID:    eventID,
			UserID:     userID,
			HolderName: userName,
			Kind:       domain.TicketKindPaid,
			Status:     domain.TicketStatusPaid,
			OrderID:    proof.OrderID,
			PaymentID:  proof.PaymentID,
			CreatedAt:  now,
		})
	}

	if err := s.ticketRepo.AppendTickets(ctx, eventID, userID, tickets); err != nil {
		return nil, err
	}
	s.afterIssue(event, userID, tickets)
	return tickets, nil
}

func (s *ticketingService) ListMyTickets(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// afterIssue performs the post-issuance steps: the idempotent joined-events
// set-add and the detached notification send. Tickets exist at this point;
// neither step may fail the request.
func (s *ticketingService) afterIssue(event *domain.Event, userID string, tickets []*domain.Ticket) {
	monitoring.TicketsIssued.WithLabelValues(event.ID, tickets[0].Kind).Add(float64(len(tickets)))

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	if err := s.userRepo.AddJoinedEvent(ctx, userID, event.ID); err != nil {
		s.logger.Warn("joined-events set-add failed", "event_id", event.ID, "user_id", userID, "err", err)
	}

	go func() {
		defer cancel()
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			s.logger.Warn("ticket email skipped: lookup recipient", "user_id", userID, "err", err)
			return
		}
		if err := s.dispatcher.Dispatch(ctx, tickets, user.Email, event); err != nil {
			monitoring.NotificationFailures.Inc()
			s.logger.Warn("ticket email failed", "event_id", event.ID, "user_id", userID, "err", err)
		}
	}()
}
