package notifybus

import (
	"net/mail"

	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
)

// Envelope is a fully rendered message ready for transport.
type Envelope struct {
	From     mail.Address
	To       mail.Address
	ReplyTo  *mail.Address
	Subject  string
	HTMLBody string
}

// Delivery reports which legs of an event actually went out. A leg skipped
// for lack of a recipient stays false.
type Delivery struct {
	Client   bool
	Business bool
}

// Event carries everything the templates need to render both legs of a
// booking notification. Service is nil when the booking did not name one.
type Event struct {
	Tenant      tenantbus.Tenant
	Worker      workerbus.Worker
	Service     *servicebus.Service
	Reservation reservationbus.Reservation
}

// templateData is the flat view handed to the HTML templates. Optional
// fields render as absent sections, never as broken output.
type templateData struct {
	TenantName  string
	WorkerName  string
	ClientName  string
	Day         string
	Start       string
	ServiceName string
	Price       string
	Notes       string
}

func toTemplateData(evt Event) templateData {
	data := templateData{
		TenantName: evt.Tenant.Name.String(),
		WorkerName: evt.Worker.Name.String(),
		ClientName: evt.Reservation.Client.Name.String(),
		Day:        evt.Reservation.Day.String(),
		Start:      evt.Reservation.Start.String(),
		Notes:      evt.Reservation.Notes,
	}

	if evt.Service != nil {
		data.ServiceName = evt.Service.Name.String()
		if cents, ok := evt.Service.Price.Cents(); ok {
			data.Price = formatPrice(cents)
		}
	}

	return data
}
