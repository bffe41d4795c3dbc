package reservationapp

import (
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
)

var orderByFields = map[string]string{
	"reservation_id": reservationbus.OrderByID,
	"day":            reservationbus.OrderByDay,
	"start":          reservationbus.OrderByStart,
	"status":         reservationbus.OrderByStatus,
	"created_at":     reservationbus.OrderByCreatedAt,
}
