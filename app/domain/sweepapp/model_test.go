package sweepapp

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   int
	}{
		{"empty run", Report{}, http.StatusOK},
		{"all sent", Report{Total: 3, Succeeded: 3}, http.StatusOK},
		{"partial failure", Report{Total: 3, Succeeded: 2, Failed: 1}, http.StatusMultiStatus},
		{"all failed", Report{Total: 2, Failed: 2}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.HTTPStatus())
		})
	}
}
