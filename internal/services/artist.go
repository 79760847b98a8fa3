package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gigcity/internal/domain"
)

type artistService struct {
	eventRepo domain.EventRepository
	appRepo   domain.ArtistApplicationRepository
	userRepo  domain.UserRepository
	logger    *slog.Logger
}

// NewArtistService creates an ArtistService with the given repositories.
func NewArtistService(
	eventRepo domain.EventRepository,
	appRepo domain.ArtistApplicationRepository,
	userRepo domain.UserRepository,
	logger *slog.Logger,
) domain.ArtistService {
	return &artistService{
		eventRepo: eventRepo,
		appRepo:   appRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (s *artistService) Apply(ctx context.Context, eventID, artistID, artistName string) (*domain.ArtistApplication, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.AllowArtistApplications {
		return nil, domain.ErrInvalidInput
	}

	app := &domain.ArtistApplication{
		EventID:    eventID,
		ArtistID:   artistID,
		ArtistName: artistName,
		Status:     domain.ApplicationStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddAppliedEvent(ctx, artistID, eventID); err != nil {
		s.logger.Warn("applied-events set-add failed", "event_id", eventID, "artist_id", artistID, "err", err)
	}
	return app, nil
}

func (s *artistService) ListApplications(ctx context.Context, eventID, requesterID string) ([]*domain.ArtistApplication, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != requesterID {
		return nil, domain.ErrForbidden
	}
	return s.appRepo.ListByEventID(ctx, eventID)
}
