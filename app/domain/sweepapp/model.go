package sweepapp

import (
	"encoding/json"
	"net/http"

	"github.com/jcpaschoal/agendex/business/domain/reminderbus"
)

// Item reports the outcome of one reminder attempt.
type Item struct {
	ReservationID string `json:"reservationId"`
	TenantID      string `json:"tenantId"`
	Sent          bool   `json:"sent"`
	Error         string `json:"error,omitempty"`
}

// Report is the client view of a sweep run.
type Report struct {
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Items     []Item `json:"items"`
}

// Encode implements the web.Encoder interface.
func (r Report) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// HTTPStatus implements the web package httpStatus interface. A clean run
// (including an empty due set) is 200, a partial failure 207, and a run
// where every attempt failed 500.
func (r Report) HTTPStatus() int {
	switch {
	case r.Failed == 0:
		return http.StatusOK
	case r.Succeeded > 0:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

func toAppReport(bus reminderbus.Report) Report {
	items := make([]Item, len(bus.Items))
	for i, item := range bus.Items {
		items[i] = Item{
			ReservationID: item.ReservationID.String(),
			TenantID:      item.TenantID.String(),
			Sent:          item.Sent,
			Error:         item.Error,
		}
	}

	return Report{
		Total:     bus.Total,
		Succeeded: bus.Succeeded,
		Failed:    bus.Failed,
		Items:     items,
	}
}
