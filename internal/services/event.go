package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gigcity/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	logger    *slog.Logger
}

// NewEventService creates an EventService with the given repository.
func NewEventService(eventRepo domain.EventRepository, logger *slog.Logger) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" || event.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if event.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if event.MaxAttendees != nil && *event.MaxAttendees < 1 {
		return nil, domain.ErrInvalidInput
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info("event created", "event_id", event.ID, "owner_id", event.OwnerID)
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return events, nil
}

func (s *eventService) Delete(ctx context.Context, eventID, requesterID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != requesterID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info("event deleted", "event_id", eventID, "owner_id", requesterID)
	return nil
}
