package reservationapp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/status"
)

// queryParams struct interna para capturar os dados crus da URL.
type queryParams struct {
	Page     string
	Rows     string
	OrderBy  string
	WorkerID string
	Date     string
	Status   string
}

// parseQueryParams extrai os parâmetros da request.
func parseQueryParams(r *http.Request) queryParams {
	values := r.URL.Query()

	return queryParams{
		Page:     values.Get("page"),
		Rows:     values.Get("rows"),
		OrderBy:  values.Get("orderBy"),
		WorkerID: values.Get("worker_id"),
		Date:     values.Get("date"),
		Status:   values.Get("status"),
	}
}

// parseFilter valida e converte os parâmetros crus para o filtro de domínio.
// Retorna erro agregado (FieldErrors) se houver falhas de validação.
func parseFilter(qp queryParams, tenantID uuid.UUID) (reservationbus.QueryFilter, error) {
	var fieldErrors errs.FieldErrors

	filter := reservationbus.QueryFilter{
		TenantID: tenantID,
	}

	if qp.WorkerID != "" {
		id, err := uuid.Parse(qp.WorkerID)
		switch err {
		case nil:
			filter.WorkerID = &id
		default:
			fieldErrors.Add("worker_id", err)
		}
	}

	if qp.Date != "" {
		d, err := daydate.Parse(qp.Date)
		switch err {
		case nil:
			filter.Day = &d
		default:
			fieldErrors.Add("date", err)
		}
	}

	if qp.Status != "" {
		sts, err := status.Parse(qp.Status)
		switch err {
		case nil:
			filter.Status = &sts
		default:
			fieldErrors.Add("status", err)
		}
	}

	if fieldErrors != nil {
		return reservationbus.QueryFilter{}, fieldErrors.ToError()
	}

	return filter, nil
}
