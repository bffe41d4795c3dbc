package reservationdb

import (
	"fmt"

	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/sdk/order"
)

var orderByFields = map[string]string{
	reservationbus.OrderByID:        "reservation_id",
	reservationbus.OrderByDay:       "day",
	reservationbus.OrderByStart:     "start_min",
	reservationbus.OrderByStatus:    "status",
	reservationbus.OrderByCreatedAt: "created_at",
}

func orderByClause(orderBy order.By) (string, error) {
	by, exists := orderByFields[orderBy.Field]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Field)
	}

	return " ORDER BY " + by + " " + orderBy.Direction, nil
}
