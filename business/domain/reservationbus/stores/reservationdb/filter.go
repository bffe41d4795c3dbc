package reservationdb

import (
	"bytes"
	"strings"
	"time"

	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
)

func applyFilter(filter reservationbus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var wc []string

	// tenant_id sempre presente: toda leitura é escopada ao tenant.
	data["tenant_id"] = filter.TenantID.String()
	wc = append(wc, "tenant_id = :tenant_id")

	if filter.WorkerID != nil {
		data["worker_id"] = filter.WorkerID.String()
		wc = append(wc, "worker_id = :worker_id")
	}

	if filter.Day != nil {
		data["day"] = filter.Day.Time(time.UTC)
		wc = append(wc, "day = :day")
	}

	if filter.Status != nil {
		data["status"] = filter.Status.String()
		wc = append(wc, "status = :status")
	}

	buf.WriteString(" WHERE ")
	buf.WriteString(strings.Join(wc, " AND "))
}
