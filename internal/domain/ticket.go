package domain

import (
	"context"
	"strings"
	"time"
)

// Ticket statuses. A ticket only ever moves forward: pending or paid to
// checked-in, exactly once. There is no transition out of checked-in.
const (
	TicketStatusPending   = "pending"
	TicketStatusPaid      = "paid"
	TicketStatusCheckedIn = "checked-in"
)

// Ticket kinds.
const (
	TicketKindFree = "free"
	TicketKindPaid = "paid"
)

// MaxTicketsPerRequest bounds the quantity of a single purchase.
const MaxTicketsPerRequest = 10

// Ticket is a single admission unit tied to one event, one holder, and one
// status. Tickets are never deleted; they form the audit trail.
// swagger:model Ticket
type Ticket struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	HolderName  string     `json:"holder_name"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	OrderID     string     `json:"order_id,omitempty"`
	PaymentID   string     `json:"payment_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// ScanPayload returns the QR payload encoding for this ticket.
// Format: "<event>-<ticketID>", parsed back by splitting on the first '-'.
// Event IDs are UUIDs and contain dashes, so the event component is emitted
// dash-free to keep the split unambiguous; ticket IDs may contain dashes.
func (t *Ticket) ScanPayload() string {
	return strings.ReplaceAll(t.EventID, "-", "") + "-" + t.ID
}

// PaymentProof is the client-supplied evidence that the gateway confirmed a
// charge. The signature is verified locally; the gateway is never called.
type PaymentProof struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// TicketRepository defines storage operations for tickets. Implementations
// must express each mutation as a single atomic conditional operation on the
// store; the capacity and one-way status invariants are enforced at write
// time, never by a read-then-write pair in the application layer.
type TicketRepository interface {
	// AppendTickets creates the tickets only if the event exists, requesterID
	// is not the event owner, and the resulting ticket count stays within the
	// event capacity. All tickets are created or none are.
	// Returns ErrNotFound, ErrForbidden, ErrCapacityExceeded, or
	// ErrAlreadyJoined (free-ticket uniqueness) on guard failure.
	AppendTickets(ctx context.Context, eventID, requesterID string, tickets []*Ticket) error
	// SetCheckedIn transitions the ticket to checked-in, only if a ticket with
	// this ID exists in this event and is not already checked in. Returns the
	// updated ticket, ErrTicketNotFound, or ErrAlreadyCheckedIn.
	SetCheckedIn(ctx context.Context, eventID, ticketID string) (*Ticket, error)
	GetByID(ctx context.Context, eventID, ticketID string) (*Ticket, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Ticket, error)
	ListByUserID(ctx context.Context, userID string) ([]*Ticket, error)
}

// TicketingService issues tickets. The issue path is the admission-control
// core: capacity is enforced by the same atomic operation that creates the
// tickets, and payment is verified before anything is written.
type TicketingService interface {
	// IssueFree issues a single free ticket. The event price must be zero.
	// A user holds at most one free ticket per event.
	IssueFree(ctx context.Context, eventID, userID, userName string) (*Ticket, error)
	// IssuePaid verifies proof and issues quantity tickets with status paid.
	IssuePaid(ctx context.Context, eventID, userID, userName string, quantity int, proof *PaymentProof) ([]*Ticket, error)
	ListMyTickets(ctx context.Context, userID string) ([]*Ticket, error)
}

// AdmissionService consumes scanned tickets at the door.
type AdmissionService interface {
	// CheckInScan parses a QR payload and checks the ticket in. The requester
	// must own the event or hold the organizer role. A repeat scan of a
	// checked-in ticket fails with ErrAlreadyCheckedIn.
	CheckInScan(ctx context.Context, payload, requesterID, requesterRole string) (*Ticket, error)
	CheckIn(ctx context.Context, eventID, ticketID, requesterID, requesterRole string) (*Ticket, error)
}
