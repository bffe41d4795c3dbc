package reservationbus

import (
	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/status"
)

// QueryFilter holds the available fields a query can be filtered on. The
// tenant is mandatory; every read is scoped to a single tenant.
type QueryFilter struct {
	TenantID uuid.UUID
	WorkerID *uuid.UUID
	Day      *daydate.Date
	Status   *status.Status
}
