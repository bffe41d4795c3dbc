package reminderbus

import "github.com/google/uuid"

// Item records the outcome of one reminder attempt inside a sweep.
type Item struct {
	ReservationID uuid.UUID
	TenantID      uuid.UUID
	Sent          bool
	Error         string
}

// Report aggregates a sweep run. A partial failure is data, not an error:
// the sweep finishes the whole due set and reports what happened per item.
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	Items     []Item
}

func (r *Report) add(item Item) {
	r.Total++
	if item.Sent {
		r.Succeeded++
	} else {
		r.Failed++
	}
	r.Items = append(r.Items, item)
}
