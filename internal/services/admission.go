package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"gigcity/internal/domain"
	"gigcity/internal/monitoring"
)

type admissionService struct {
	eventRepo  domain.EventRepository
	ticketRepo domain.TicketRepository
	logger     *slog.Logger
}

// NewAdmissionService creates the door-side check-in service.
func NewAdmissionService(eventRepo domain.EventRepository, ticketRepo domain.TicketRepository, logger *slog.Logger) domain.AdmissionService {
	return &admissionService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// ParseScanPayload splits a QR payload into event and ticket IDs. The
// separator is the first '-' only; ticket IDs may themselves contain dashes.
// The event component arrives dash-free (see Ticket.ScanPayload) and is
// restored to the canonical UUID form for storage lookups.
func ParseScanPayload(payload string) (eventID, ticketID string, err error) {
	eventID, ticketID, found := strings.Cut(payload, "-")
	if !found || eventID == "" || ticketID == "" {
		return "", "", domain.ErrInvalidInput
	}
	if id, parseErr := uuid.Parse(eventID); parseErr == nil {
		eventID = id.String()
	}
	return eventID, ticketID, nil
}

func (s *admissionService) CheckInScan(ctx context.Context, payload, requesterID, requesterRole string) (*domain.Ticket, error) {
	eventID, ticketID, err := ParseScanPayload(payload)
	if err != nil {
		return nil, err
	}
	return s.CheckIn(ctx, eventID, ticketID, requesterID, requesterRole)
}

func (s *admissionService) CheckIn(ctx context.Context, eventID, ticketID, requesterID, requesterRole string) (*domain.Ticket, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// The event owner checks guests in; any organizer account may also scan,
	// so staff accounts don't have to be the event's creator.
	if event.OwnerID != requesterID && requesterRole != domain.RoleOrganizer {
		return nil, domain.ErrForbidden
	}

	ticket, err := s.ticketRepo.SetCheckedIn(ctx, eventID, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			monitoring.CheckIns.WithLabelValues(eventID, "repeat").Inc()
		}
		return nil, err
	}

	monitoring.CheckIns.WithLabelValues(eventID, "ok").Inc()
	s.logger.Info("ticket checked in", "event_id", eventID, "ticket_id", ticketID, "by", requesterID)
	return ticket, nil
}
