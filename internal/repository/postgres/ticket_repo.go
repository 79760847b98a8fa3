package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gigcity/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

// AppendTickets creates tickets behind a conditional counter update on the
// events row. The guard UPDATE takes the row lock, so concurrent issuance
// against the same event is serialized by the store; a zero-row result means
// the predicate failed and nothing was written. Application code never does a
// read-then-write pair here.
func (r *ticketRepository) AppendTickets(ctx context.Context, eventID, requesterID string, tickets []*domain.Ticket) error {
	if len(tickets) == 0 {
		return domain.ErrInvalidInput
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	guard := `
		UPDATE events
		SET tickets_issued = tickets_issued + $1
		WHERE id = $2
		  AND owner_id <> $3
		  AND (max_attendees IS NULL OR tickets_issued + $1 <= max_attendees)
	`
	res, err := tx.ExecContext(ctx, guard, len(tickets), eventID, requesterID)
	if err != nil {
		return fmt.Errorf("capacity guard: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("capacity guard rows affected: %w", err)
	}
	if affected == 0 {
		return r.classifyGuardFailure(ctx, eventID, requesterID)
	}

	insert := `
		INSERT INTO tickets (id, event_id, user_id, holder_name, kind, status, order_id, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, t := range tickets {
		_, err := tx.ExecContext(ctx, insert,
			t.ID, t.EventID, t.UserID, t.HolderName, t.Kind, t.Status,
			nullString(t.OrderID), nullString(t.PaymentID), t.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return domain.ErrAlreadyJoined
			}
			return fmt.Errorf("insert ticket: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// classifyGuardFailure distinguishes why the conditional append matched no
// row. The append itself stays a single atomic operation; this is a read-only
// follow-up so the caller gets a precise error code.
func (r *ticketRepository) classifyGuardFailure(ctx context.Context, eventID, requesterID string) error {
	var ownerID string
	err := r.DB.QueryRowContext(ctx, `SELECT owner_id FROM events WHERE id = $1`, eventID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("classify guard failure: %w", err)
	}
	if ownerID == requesterID {
		return domain.ErrForbidden
	}
	return domain.ErrCapacityExceeded
}

// SetCheckedIn performs the one-way status transition as a single conditional
// UPDATE. A ticket already checked in does not match the predicate, so repeat
// scans cannot revert or re-consume it.
func (r *ticketRepository) SetCheckedIn(ctx context.Context, eventID, ticketID string) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $1, checked_in_at = $2
		WHERE id = $3 AND event_id = $4 AND status <> $1
		RETURNING id, event_id, user_id, holder_name, kind, status, order_id, payment_id, created_at, checked_in_at
	`
	now := time.Now()
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, domain.TicketStatusCheckedIn, now, ticketID, eventID))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check in ticket: %w", err)
	}

	// No match: either the ticket does not exist in this event, or it was
	// already checked in. Classify with a read; the transition above remains
	// all-or-nothing.
	var status string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM tickets WHERE id = $1 AND event_id = $2`, ticketID, eventID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("classify check-in failure: %w", err)
	}
	if status == domain.TicketStatusCheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}
	return nil, domain.ErrTicketNotFound
}

func (r *ticketRepository) GetByID(ctx context.Context, eventID, ticketID string) (*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, holder_name, kind, status, order_id, payment_id, created_at, checked_in_at
		FROM tickets
		WHERE id = $1 AND event_id = $2
	`
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, ticketID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, holder_name, kind, status, order_id, payment_id, created_at, checked_in_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	return r.listTickets(ctx, query, eventID)
}

func (r *ticketRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, holder_name, kind, status, order_id, payment_id, created_at, checked_in_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.listTickets(ctx, query, userID)
}

func (r *ticketRepository) listTickets(ctx context.Context, query string, arg any) ([]*domain.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return tickets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	var orderNull, paymentNull sql.NullString
	var checkedInNull sql.NullTime
	err := row.Scan(
		&t.ID, &t.EventID, &t.UserID, &t.HolderName, &t.Kind, &t.Status,
		&orderNull, &paymentNull, &t.CreatedAt, &checkedInNull,
	)
	if err != nil {
		return nil, err
	}
	if orderNull.Valid {
		t.OrderID = orderNull.String
	}
	if paymentNull.Valid {
		t.PaymentID = paymentNull.String
	}
	if checkedInNull.Valid {
		t.CheckedInAt = &checkedInNull.Time
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
