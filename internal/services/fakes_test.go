package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"gigcity/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	err    error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	m := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return &fakeEventRepo{events: m}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if e.ID == "" {
		e.ID = "ev-generated"
	}
	f.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeTicketRepo mirrors the store's conditional-write semantics: the append
// guard and the one-way check-in are evaluated under a single lock, the way
// the row lock serializes them in Postgres.
type fakeTicketRepo struct {
	mu      sync.Mutex
	events  *fakeEventRepo
	tickets map[string]*domain.Ticket // key: eventID+"/"+ticketID
	free    map[string]bool           // key: eventID+"/"+userID
	err     error
}

func newFakeTicketRepo(events *fakeEventRepo) *fakeTicketRepo {
	return &fakeTicketRepo{
		events:  events,
		tickets: make(map[string]*domain.Ticket),
		free:    make(map[string]bool),
	}
}

func (f *fakeTicketRepo) AppendTickets(ctx context.Context, eventID, requesterID string, tickets []*domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if len(tickets) == 0 {
		return domain.ErrInvalidInput
	}
	event, ok := f.events.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if event.OwnerID == requesterID {
		return domain.ErrForbidden
	}
	if event.MaxAttendees != nil && event.TicketsIssued+len(tickets) > *event.MaxAttendees {
		return domain.ErrCapacityExceeded
	}
	for _, t := range tickets {
		if t.Kind == domain.TicketKindFree && f.free[eventID+"/"+t.UserID] {
			return domain.ErrAlreadyJoined
		}
	}
	for _, t := range tickets {
		f.tickets[eventID+"/"+t.ID] = t
		if t.Kind == domain.TicketKindFree {
			f.free[eventID+"/"+t.UserID] = true
		}
	}
	event.TicketsIssued += len(tickets)
	return nil
}

func (f *fakeTicketRepo) SetCheckedIn(ctx context.Context, eventID, ticketID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[eventID+"/"+ticketID]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	if t.Status == domain.TicketStatusCheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}
	now := time.Now()
	t.Status = domain.TicketStatusCheckedIn
	t.CheckedInAt = &now
	return t, nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, eventID, ticketID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[eventID+"/"+ticketID]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTicketRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Ticket{}
	for _, t := range f.tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Ticket{}
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	joined map[string]bool // key: userID+"/"+eventID
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	m := make(map[string]*domain.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m, joined: make(map[string]bool)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = "user-generated"
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpsertFederated(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.GoogleSub == u.GoogleSub && u.GoogleSub != "" {
			u.ID = existing.ID
			u.Role = existing.Role
			existing.Name = u.Name
			existing.Picture = u.Picture
			return nil
		}
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = "user-generated"
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) AddJoinedEvent(ctx context.Context, userID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined[userID+"/"+eventID] = true
	return nil
}

func (f *fakeUserRepo) AddAppliedEvent(ctx context.Context, userID, eventID string) error {
	return nil
}

func (f *fakeUserRepo) ListJoinedEventIDs(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for key := range f.joined {
		if len(key) > len(userID) && key[:len(userID)] == userID {
			ids = append(ids, key[len(userID)+1:])
		}
	}
	return ids, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.PaymentOrder // key: gateway order ID
}

func newFakeOrderRepo(orders ...*domain.PaymentOrder) *fakeOrderRepo {
	m := make(map[string]*domain.PaymentOrder, len(orders))
	for _, o := range orders {
		m[o.GatewayOrderID] = o
	}
	return &fakeOrderRepo{orders: m}
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *domain.PaymentOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.GatewayOrderID] = o
	return nil
}

func (f *fakeOrderRepo) GetByGatewayOrderID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// fakeVerifier accepts exactly one signature value.
type fakeVerifier struct {
	accept string
}

func (f *fakeVerifier) Verify(orderID, paymentID, signature string) error {
	if signature != f.accept {
		return domain.ErrInvalidPaymentSignature
	}
	return nil
}

type fakeDispatcher struct {
	mu       sync.Mutex
	sent     chan struct{}
	lastTo   string
	lastSize int
	err      error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{sent: make(chan struct{}, 16)}
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, tickets []*domain.Ticket, recipient string, event *domain.Event) error {
	f.mu.Lock()
	f.lastTo = recipient
	f.lastSize = len(tickets)
	err := f.err
	f.mu.Unlock()
	f.sent <- struct{}{}
	return err
}

type fakeGateway struct {
	lastAmount   decimal.Decimal
	lastCurrency string
	lastReceipt  string
	err          error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*domain.GatewayOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastAmount = amount
	f.lastCurrency = currency
	f.lastReceipt = receipt
	return &domain.GatewayOrder{ID: "order_fake", Amount: amount, Currency: currency}, nil
}

func paidEvent(id, ownerID string, price string, capacity *int) *domain.Event {
	return &domain.Event{
		ID:           id,
		Title:        "Test Event",
		Price:        decimal.RequireFromString(price),
		MaxAttendees: capacity,
		OwnerID:      ownerID,
		OwnerName:    "Owner",
		Date:         time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func freeEvent(id, ownerID string, capacity *int) *domain.Event {
	return paidEvent(id, ownerID, "0", capacity)
}

func intp(v int) *int { return &v }
