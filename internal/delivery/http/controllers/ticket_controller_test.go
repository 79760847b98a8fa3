package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gigcity/internal/delivery/http/helpers"
	"gigcity/internal/delivery/http/middleware"
	"gigcity/internal/domain"
)

const testEventID = "7f0c2d3e-1111-4222-8333-444455556666"

type stubTicketingService struct {
	ticket  *domain.Ticket
	tickets []*domain.Ticket
	err     error
}

func (s *stubTicketingService) IssueFree(ctx context.Context, eventID, userID, userName string) (*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ticket, nil
}

func (s *stubTicketingService) IssuePaid(ctx context.Context, eventID, userID, userName string, quantity int, proof *domain.PaymentProof) ([]*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tickets, nil
}

func (s *stubTicketingService) ListMyTickets(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tickets, nil
}

type stubAdmissionService struct {
	ticket *domain.Ticket
	err    error
}

func (s *stubAdmissionService) CheckInScan(ctx context.Context, payload, requesterID, requesterRole string) (*domain.Ticket, error) {
	if _, _, err := splitPayload(payload); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.ticket, nil
}

func splitPayload(payload string) (string, string, error) {
	eventID, ticketID, found := strings.Cut(payload, "-")
	if !found || eventID == "" || ticketID == "" {
		return "", "", domain.ErrInvalidInput
	}
	return eventID, ticketID, nil
}

func (s *stubAdmissionService) CheckIn(ctx context.Context, eventID, ticketID, requesterID, requesterRole string) (*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ticket, nil
}

type stubPaymentService struct {
	order *domain.GatewayOrder
	err   error
}

func (s *stubPaymentService) CreateOrder(ctx context.Context, eventID, userID string, quantity int) (*domain.GatewayOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func newTicketController(ticketing domain.TicketingService, admission domain.AdmissionService, payments domain.PaymentService) *TicketController {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewTicketController(logger, ticketing, admission, payments)
}

func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.SetClaims(req.Context(), &domain.TokenClaims{UserID: "user-1", Name: "Ada", Role: domain.RoleFan})
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestTicketController_Join_Unauthorized(t *testing.T) {
	ctrl := newTicketController(&stubTicketingService{}, &stubAdmissionService{}, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/events/join", strings.NewReader(`{"event_id":"`+testEventID+`"}`))
	w := httptest.NewRecorder()
	ctrl.Join(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestTicketController_Join_Success(t *testing.T) {
	svc := &stubTicketingService{ticket: &domain.Ticket{ID: "tk-1", EventID: testEventID, UserID: "user-1"}}
	ctrl := newTicketController(svc, &stubAdmissionService{}, &stubPaymentService{})

	req := authedRequest(http.MethodPost, "/events/join", `{"event_id":"`+testEventID+`"}`)
	w := httptest.NewRecorder()
	ctrl.Join(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestTicketController_Join_InvalidEventID(t *testing.T) {
	ctrl := newTicketController(&stubTicketingService{}, &stubAdmissionService{}, &stubPaymentService{})

	req := authedRequest(http.MethodPost, "/events/join", `{"event_id":"not-a-uuid"}`)
	w := httptest.NewRecorder()
	ctrl.Join(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestTicketController_Join_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantAPI  string
	}{
		{"capacity", domain.ErrCapacityExceeded, http.StatusConflict, helpers.ErrCodeCapacityExceeded},
		{"already joined", domain.ErrAlreadyJoined, http.StatusConflict, helpers.ErrCodeAlreadyJoined},
		{"payment required", domain.ErrPaymentRequired, http.StatusPaymentRequired, helpers.ErrCodePaymentRequired},
		{"owner", domain.ErrForbidden, http.StatusForbidden, helpers.ErrCodeForbidden},
		{"unknown event", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTicketController(&stubTicketingService{err: tt.err}, &stubAdmissionService{}, &stubPaymentService{})

			req := authedRequest(http.MethodPost, "/events/join", `{"event_id":"`+testEventID+`"}`)
			w := httptest.NewRecorder()
			ctrl.Join(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			resp := decodeResponse(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantAPI {
				t.Fatalf("expected error code %q, got %v", tt.wantAPI, resp.Error)
			}
		})
	}
}

func TestTicketController_VerifyPayment_Success(t *testing.T) {
	svc := &stubTicketingService{tickets: []*domain.Ticket{{ID: "tk-1"}, {ID: "tk-2"}}}
	ctrl := newTicketController(svc, &stubAdmissionService{}, &stubPaymentService{})

	body := `{"event_id":"` + testEventID + `","quantity":2,"order_id":"order_1","payment_id":"pay_1","signature":"abc"}`
	req := authedRequest(http.MethodPost, "/events/verify-payment", body)
	w := httptest.NewRecorder()
	ctrl.VerifyPayment(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
}

func TestTicketController_VerifyPayment_BadSignature(t *testing.T) {
	svc := &stubTicketingService{err: domain.ErrInvalidPaymentSignature}
	ctrl := newTicketController(svc, &stubAdmissionService{}, &stubPaymentService{})

	body := `{"event_id":"` + testEventID + `","quantity":1,"order_id":"order_1","payment_id":"pay_1","signature":"forged"}`
	req := authedRequest(http.MethodPost, "/events/verify-payment", body)
	w := httptest.NewRecorder()
	ctrl.VerifyPayment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeInvalidSignature {
		t.Fatalf("expected error code %q, got %v", helpers.ErrCodeInvalidSignature, resp.Error)
	}
}

func TestTicketController_VerifyPayment_MissingFields(t *testing.T) {
	ctrl := newTicketController(&stubTicketingService{}, &stubAdmissionService{}, &stubPaymentService{})

	body := `{"event_id":"` + testEventID + `","quantity":1,"order_id":"order_1"}`
	req := authedRequest(http.MethodPost, "/events/verify-payment", body)
	w := httptest.NewRecorder()
	ctrl.VerifyPayment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestTicketController_CreateOrder_Success(t *testing.T) {
	svc := &stubPaymentService{order: &domain.GatewayOrder{ID: "order_1", Currency: "INR"}}
	ctrl := newTicketController(&stubTicketingService{}, &stubAdmissionService{}, svc)

	body := `{"event_id":"` + testEventID + `","quantity":2}`
	req := authedRequest(http.MethodPost, "/events/create-order", body)
	w := httptest.NewRecorder()
	ctrl.CreateOrder(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
}

func TestTicketController_CreateOrder_QuantityBounds(t *testing.T) {
	ctrl := newTicketController(&stubTicketingService{}, &stubAdmissionService{}, &stubPaymentService{})

	body := `{"event_id":"` + testEventID + `","quantity":11}`
	req := authedRequest(http.MethodPost, "/events/create-order", body)
	w := httptest.NewRecorder()
	ctrl.CreateOrder(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestTicketController_CheckIn_Payload(t *testing.T) {
	svc := &stubAdmissionService{ticket: &domain.Ticket{ID: "tk-1", Status: domain.TicketStatusCheckedIn}}
	ctrl := newTicketController(&stubTicketingService{}, svc, &stubPaymentService{})

	req := authedRequest(http.MethodPost, "/events/checkin", `{"payload":"ev1-tk-1"}`)
	w := httptest.NewRecorder()
	ctrl.CheckIn(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestTicketController_CheckIn_MalformedPayload(t *testing.T) {
	ctrl := newTicketController(&stubTicketingService{}, &stubAdmissionService{}, &stubPaymentService{})

	req := authedRequest(http.MethodPost, "/events/checkin", `{"payload":"noseparator"}`)
	w := httptest.NewRecorder()
	ctrl.CheckIn(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestTicketController_CheckIn_Repeat(t *testing.T) {
	svc := &stubAdmissionService{err: domain.ErrAlreadyCheckedIn}
	ctrl := newTicketController(&stubTicketingService{}, svc, &stubPaymentService{})

	req := authedRequest(http.MethodPost, "/events/checkin", `{"payload":"ev1-tk-1"}`)
	w := httptest.NewRecorder()
	ctrl.CheckIn(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeAlreadyCheckedIn {
		t.Fatalf("expected error code %q, got %v", helpers.ErrCodeAlreadyCheckedIn, resp.Error)
	}
}

func TestTicketController_CheckIn_Forbidden(t *testing.T) {
	svc := &stubAdmissionService{err: domain.ErrForbidden}
	ctrl := newTicketController(&stubTicketingService{}, svc, &stubPaymentService{})

	req := authedRequest(http.MethodPost, "/events/checkin", `{"payload":"ev1-tk-1"}`)
	w := httptest.NewRecorder()
	ctrl.CheckIn(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestTicketController_CheckIn_ExplicitPair(t *testing.T) {
	svc := &stubAdmissionService{ticket: &domain.Ticket{ID: "tk-1", Status: domain.TicketStatusCheckedIn}}
	ctrl := newTicketController(&stubTicketingService{}, svc, &stubPaymentService{})

	body := `{"event_id":"` + testEventID + `","ticket_id":"tk-1"}`
	req := authedRequest(http.MethodPost, "/events/checkin", body)
	w := httptest.NewRecorder()
	ctrl.CheckIn(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestTicketController_MyTickets(t *testing.T) {
	svc := &stubTicketingService{tickets: []*domain.Ticket{{ID: "tk-1"}}}
	ctrl := newTicketController(svc, &stubAdmissionService{}, &stubPaymentService{})

	req := authedRequest(http.MethodGet, "/me/tickets", "")
	w := httptest.NewRecorder()
	ctrl.MyTickets(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
