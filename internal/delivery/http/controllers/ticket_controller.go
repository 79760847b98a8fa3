package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gigcity/internal/delivery/http/helpers"
	"gigcity/internal/delivery/http/middleware"
	"gigcity/internal/domain"
)

type TicketController struct {
	Logger    *slog.Logger
	Ticketing domain.TicketingService
	Admission domain.AdmissionService
	Payments  domain.PaymentService
}

func NewTicketController(logger *slog.Logger, ticketing domain.TicketingService, admission domain.AdmissionService, payments domain.PaymentService) *TicketController {
	return &TicketController{
		Logger:    logger,
		Ticketing: ticketing,
		Admission: admission,
		Payments:  payments,
	}
}

// JoinRequest is the request body for POST /events/join.
type JoinRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements helpers.Validator.
func (r *JoinRequest) Validate() []string {
	if !uuidRegex.MatchString(r.EventID) {
		return []string{"a valid event_id is required"}
	}
	return nil
}

// Join godoc
// @Summary Join a free event
// @Description Issues a single free ticket. The event must have price zero; each
// @Description user holds at most one free ticket per event. Capacity is enforced
// @Description atomically, a full event is never oversold.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.JoinRequest true "Event to join"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_required"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded or already_joined"
// @Router /events/join [post]
func (c *TicketController) Join(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req JoinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := c.Ticketing.IssueFree(r.Context(), req.EventID, claims.UserID, claims.Name)
	if err != nil {
		c.writeIssueError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// CreateOrderRequest is the request body for POST /events/create-order.
type CreateOrderRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// Validate implements helpers.Validator.
func (r *CreateOrderRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "a valid event_id is required")
	}
	if r.Quantity < 1 || r.Quantity > domain.MaxTicketsPerRequest {
		errs = append(errs, "quantity must be between 1 and 10")
	}
	return errs
}

// CreateOrder godoc
// @Summary Create a payment order
// @Description Creates a gateway order for quantity paid tickets. The returned
// @Description order ID is used by the client's checkout flow and later presented
// @Description to verify-payment together with the gateway's signature.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateOrderRequest true "Event and quantity"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/create-order [post]
func (c *TicketController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	order, err := c.Payments.CreateOrder(r.Context(), req.EventID, claims.UserID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "event owners cannot buy their own tickets")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, order)
}

// VerifyPaymentRequest is the request body for POST /events/verify-payment.
type VerifyPaymentRequest struct {
	EventID   string `json:"event_id"`
	Quantity  int    `json:"quantity"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// Validate implements helpers.Validator.
func (r *VerifyPaymentRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "a valid event_id is required")
	}
	if r.Quantity < 1 || r.Quantity > domain.MaxTicketsPerRequest {
		errs = append(errs, "quantity must be between 1 and 10")
	}
	if strings.TrimSpace(r.OrderID) == "" {
		errs = append(errs, "order_id is required")
	}
	if strings.TrimSpace(r.PaymentID) == "" {
		errs = append(errs, "payment_id is required")
	}
	if strings.TrimSpace(r.Signature) == "" {
		errs = append(errs, "signature is required")
	}
	return errs
}

// VerifyPayment godoc
// @Summary Verify a payment and issue the tickets
// @Description Verifies the gateway signature over (order_id, payment_id) locally,
// @Description checks the order binds to this event, buyer and quantity, and then
// @Description issues the tickets atomically. No ticket is written on any failure.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.VerifyPaymentRequest true "Payment proof"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_payment_signature"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Router /events/verify-payment [post]
func (c *TicketController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req VerifyPaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	proof := &domain.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}
	tickets, err := c.Ticketing.IssuePaid(r.Context(), req.EventID, claims.UserID, claims.Name, req.Quantity, proof)
	if err != nil {
		c.writeIssueError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tickets)
}

// CheckInRequest is the request body for POST /events/checkin. Either payload
// (a raw QR scan) or the event_id/ticket_id pair must be supplied.
type CheckInRequest struct {
	Payload  string `json:"payload"`
	EventID  string `json:"event_id"`
	TicketID string `json:"ticket_id"`
}

// Validate implements helpers.Validator.
func (r *CheckInRequest) Validate() []string {
	if r.Payload != "" {
		return nil
	}
	var errs []string
	if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "a valid event_id is required when payload is empty")
	}
	if r.TicketID == "" {
		errs = append(errs, "ticket_id is required when payload is empty")
	}
	return errs
}

// CheckIn godoc
// @Summary Check a ticket in at the door
// @Description Consumes a scanned QR payload or an explicit event/ticket pair.
// @Description Only the event owner or an organizer may check tickets in; a ticket
// @Description checks in exactly once and a repeat scan is rejected.
// @Tags admission
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CheckInRequest true "QR payload or event/ticket pair"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_checked_in"
// @Router /events/checkin [post]
func (c *TicketController) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	var (
		ticket *domain.Ticket
		err    error
	)
	if req.Payload != "" {
		ticket, err = c.Admission.CheckInScan(r.Context(), req.Payload, claims.UserID, claims.Role)
	} else {
		ticket, err = c.Admission.CheckIn(r.Context(), req.EventID, req.TicketID, claims.UserID, claims.Role)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed scan payload")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrTicketNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "ticket not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the event owner or an organizer can check tickets in")
		case errors.Is(err, domain.ErrAlreadyCheckedIn):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadyCheckedIn, "ticket already checked in")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// MyTickets godoc
// @Summary List the authenticated user's tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/tickets [get]
func (c *TicketController) MyTickets(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	tickets, err := c.Ticketing.ListMyTickets(r.Context(), claims.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}

// writeIssueError maps ticket-issuance errors onto the API error taxonomy.
// Both the free and the paid path share this mapping.
func (c *TicketController) writeIssueError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "event owners cannot hold tickets to their own event")
	case errors.Is(err, domain.ErrCapacityExceeded):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeCapacityExceeded, "event is at capacity")
	case errors.Is(err, domain.ErrAlreadyJoined):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadyJoined, "already joined this event")
	case errors.Is(err, domain.ErrPaymentRequired):
		helpers.WriteJSONError(w, http.StatusPaymentRequired, helpers.ErrCodePaymentRequired, "this event requires payment")
	case errors.Is(err, domain.ErrInvalidPaymentSignature):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidSignature, "payment signature verification failed")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
