package domain

import (
	"context"
	"time"
)

// Artist application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// ArtistApplication is a performer's application to play at an event.
// swagger:model ArtistApplication
type ArtistApplication struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	ArtistID   string    `json:"artist_id"`
	ArtistName string    `json:"artist_name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ArtistApplicationRepository defines storage for artist applications.
type ArtistApplicationRepository interface {
	// Create inserts the application. Returns ErrAlreadyApplied if the artist
	// already applied to this event.
	Create(ctx context.Context, app *ArtistApplication) error
	ListByEventID(ctx context.Context, eventID string) ([]*ArtistApplication, error)
}

// ArtistService defines artist-facing operations.
type ArtistService interface {
	// Apply submits an application. The event must accept applications and
	// each artist may apply once per event.
	Apply(ctx context.Context, eventID, artistID, artistName string) (*ArtistApplication, error)
	ListApplications(ctx context.Context, eventID, requesterID string) ([]*ArtistApplication, error)
}
