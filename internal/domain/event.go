package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a published event. MaxAttendees nil means unlimited
// capacity. TicketsIssued is the write-time capacity counter: the repository
// guarantees TicketsIssued never exceeds MaxAttendees.
// swagger:model Event
type Event struct {
	ID                      string          `json:"id"`
	Title                   string          `json:"title"`
	Description             string          `json:"description,omitempty"`
	Date                    time.Time       `json:"date"`
	Time                    string          `json:"time,omitempty"`
	Location                string          `json:"location,omitempty"`
	Online                  bool            `json:"online"`
	Category                string          `json:"category,omitempty"`
	Price                   decimal.Decimal `json:"price"`
	MaxAttendees            *int            `json:"max_attendees,omitempty"`
	TicketsIssued           int             `json:"tickets_issued"`
	OwnerID                 string          `json:"owner_id"`
	OwnerName               string          `json:"owner_name"`
	AllowArtistApplications bool            `json:"allow_artist_applications"`
	Image                   string          `json:"image,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
}

// NewEvent returns a new Event. ID is typically set by the repository on create.
func NewEvent(title, ownerID, ownerName string, date time.Time, price decimal.Decimal, maxAttendees *int, createdAt time.Time) *Event {
	return &Event{
		Title:        title,
		OwnerID:      ownerID,
		OwnerName:    ownerName,
		Date:         date,
		Price:        price,
		MaxAttendees: maxAttendees,
		CreatedAt:    createdAt,
	}
}

// Free reports whether the event costs nothing to join.
func (e *Event) Free() bool {
	return e.Price.IsZero()
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// Delete removes the event. Joined-event references, comments, tickets
	// and artist applications are removed with it (cascade).
	Delete(ctx context.Context, id string) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// Delete removes the event if requesterID owns it.
	Delete(ctx context.Context, eventID, requesterID string) error
}
