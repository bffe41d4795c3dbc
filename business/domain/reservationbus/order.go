package reservationbus

import "github.com/jcpaschoal/agendex/business/sdk/order"

var DefaultOrderBy = order.NewBy(OrderByDay, order.ASC)

const (
	OrderByID        = "a"
	OrderByDay       = "b"
	OrderByStart     = "c"
	OrderByStatus    = "d"
	OrderByCreatedAt = "e"
)
