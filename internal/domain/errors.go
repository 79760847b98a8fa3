package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes and machine-readable reason codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Ticketing
	ErrCapacityExceeded        = errors.New("event capacity exceeded")
	ErrPaymentRequired         = errors.New("payment required")
	ErrInvalidPaymentSignature = errors.New("invalid payment signature")
	ErrAlreadyJoined           = errors.New("already joined event")

	// Admission
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")

	// Artist applications
	ErrAlreadyApplied = errors.New("already applied to event")
)
