package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// QREncoder renders a payload as a QR image data URI suitable for embedding
// in an email body.
type QREncoder interface {
	EncodeDataURI(payload string) (string, error)
}

// TicketQR pairs a ticket with its rendered QR image.
type TicketQR struct {
	TicketID string
	DataURI  string
}

// TicketEmailData holds data for the ticket confirmation email.
type TicketEmailData struct {
	HolderName string
	EventTitle string
	EventDate  string
	Location   string
	Tickets    []TicketQR
}

// NotificationDispatcher sends ticket confirmations. Best effort: issuance
// never waits on it and never fails because of it.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, tickets []*Ticket, recipient string, event *Event) error
}
