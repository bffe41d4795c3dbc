// Package notifybus routes booking notifications. Each event produces two
// envelopes, one per party, with Reply-To pointed at the other party so a
// reply lands with a person instead of the sender mailbox.
package notifybus

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Mailer defines the transport behavior required to deliver an envelope.
type Mailer interface {
	Send(ctx context.Context, env Envelope) error
}

// Router manages rendering and delivery of booking notifications.
type Router struct {
	log       *logger.Logger
	mailer    Mailer
	templates *template.Template
}

// NewRouter constructs a router. The embedded templates are parsed once at
// construction.
func NewRouter(log *logger.Logger, mailer Mailer) (*Router, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Router{
		log:       log,
		mailer:    mailer,
		templates: templates,
	}, nil
}

// Confirmation delivers the booking confirmation for a freshly committed
// reservation: one leg to the client and one to the business contact. The
// returned Delivery reports which legs actually went out.
func (r *Router) Confirmation(ctx context.Context, evt Event) (Delivery, error) {
	ctx, span := otel.AddSpan(ctx, "business.notifybus.confirmation")
	defer span.End()

	subject := fmt.Sprintf("Booking confirmed: %s on %s at %s",
		evt.Tenant.Name, evt.Reservation.Day, evt.Reservation.Start)

	return r.route(ctx, evt, "confirmation.html", subject)
}

// Reminder delivers the day-before reminder for a reservation: one leg to
// the client and one to the business contact. The returned Delivery reports
// which legs actually went out.
func (r *Router) Reminder(ctx context.Context, evt Event) (Delivery, error) {
	ctx, span := otel.AddSpan(ctx, "business.notifybus.reminder")
	defer span.End()

	subject := fmt.Sprintf("Reminder: %s tomorrow at %s",
		evt.Tenant.Name, evt.Reservation.Start)

	return r.route(ctx, evt, "reminder.html", subject)
}

// route renders and sends both legs. A leg without a recipient is skipped,
// logged and reported as not sent; a transport failure on either attempted
// leg fails the event.
func (r *Router) route(ctx context.Context, evt Event, templateName string, subject string) (Delivery, error) {
	body, err := r.render(templateName, toTemplateData(evt))
	if err != nil {
		return Delivery{}, fmt.Errorf("render: %w", err)
	}

	var delivery Delivery

	for _, leg := range legs(evt, subject, body) {
		if leg.env.To.Address == "" {
			r.log.Info(ctx, "notify: leg skipped, no recipient",
				"leg", leg.name, "reservation_id", evt.Reservation.ID)
			continue
		}

		if err := r.mailer.Send(ctx, leg.env); err != nil {
			return delivery, fmt.Errorf("send %s leg: %w", leg.name, err)
		}

		switch leg.name {
		case legClient:
			delivery.Client = true
		case legBusiness:
			delivery.Business = true
		}
	}

	return delivery, nil
}

func (r *Router) render(templateName string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// =============================================================================

const (
	legClient   = "client"
	legBusiness = "business"
)

type leg struct {
	name string
	env  Envelope
}

// legs builds the client and business envelopes. Replies cross over: the
// client replies to the business contact and the business replies to the
// client. The business leg prefers the worker's own address and falls back
// to the tenant owner.
func legs(evt Event, subject string, body string) []leg {
	businessTo := evt.Tenant.OwnerEmail
	if evt.Worker.Email != nil {
		businessTo = *evt.Worker.Email
	}

	clientTo := evt.Reservation.Client.Email

	return []leg{
		{
			name: legClient,
			env: Envelope{
				From:     evt.Tenant.SenderEmail,
				To:       clientTo,
				ReplyTo:  &businessTo,
				Subject:  subject,
				HTMLBody: body,
			},
		},
		{
			name: legBusiness,
			env: Envelope{
				From:     evt.Tenant.SenderEmail,
				To:       businessTo,
				ReplyTo:  &clientTo,
				Subject:  subject,
				HTMLBody: body,
			},
		},
	}
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
