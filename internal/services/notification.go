package services

import (
	"context"
	"fmt"

	"gigcity/internal/domain"
)

type notificationDispatcher struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	qr       domain.QREncoder
}

// NewNotificationDispatcher creates the ticket-email dispatcher. Callers run
// it detached; Dispatch reports errors for logging but issuance never depends
// on the outcome.
func NewNotificationDispatcher(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, qr domain.QREncoder) domain.NotificationDispatcher {
	return &notificationDispatcher{
		mailer:   mailer,
		renderer: renderer,
		qr:       qr,
	}
}

func (d *notificationDispatcher) Dispatch(ctx context.Context, tickets []*domain.Ticket, recipient string, event *domain.Event) error {
	if recipient == "" {
		return fmt.Errorf("no recipient address")
	}
	if len(tickets) == 0 {
		return fmt.Errorf("no tickets to send")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	qrs := make([]domain.TicketQR, 0, len(tickets))
	for _, t := range tickets {
		uri, err := d.qr.EncodeDataURI(t.ScanPayload())
		if err != nil {
			return fmt.Errorf("encode ticket qr: %w", err)
		}
		qrs = append(qrs, domain.TicketQR{TicketID: t.ID, DataURI: uri})
	}

	location := event.Location
	if event.Online {
		location = "Online"
	}
	data := &domain.TicketEmailData{
		HolderName: tickets[0].HolderName,
		EventTitle: event.Title,
		EventDate:  event.Date.Format("Mon, 2 Jan 2006"),
		Location:   location,
		Tickets:    qrs,
	}

	subject, html, text, err := d.renderer.Render("ticket", data)
	if err != nil {
		return fmt.Errorf("render ticket email: %w", err)
	}
	if err := d.mailer.Send(recipient, subject, html, text); err != nil {
		return fmt.Errorf("send ticket email: %w", err)
	}
	return nil
}
