package errs_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	err := errs.New(errs.Aborted, errors.New("slot is not available"))

	require.True(t, errs.IsError(err))
	assert.Equal(t, "slot is not available", err.Error())
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())

	got := errs.GetError(err)
	assert.True(t, got.Code.Equal(errs.Aborted))
}

func TestErrorf(t *testing.T) {
	err := errs.Errorf(errs.NotFound, "reservation[%s] not found", "abc")

	assert.Equal(t, "reservation[abc] not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code errs.ErrCode
		want int
	}{
		{errs.InvalidArgument, http.StatusBadRequest},
		{errs.Unauthenticated, http.StatusUnauthorized},
		{errs.PermissionDenied, http.StatusForbidden},
		{errs.NotFound, http.StatusNotFound},
		{errs.Aborted, http.StatusConflict},
		{errs.Unavailable, http.StatusServiceUnavailable},
		{errs.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := errs.New(tt.code, errors.New("boom"))
			assert.Equal(t, tt.want, err.HTTPStatus())
		})
	}
}

func TestFieldErrors(t *testing.T) {
	var fe errs.FieldErrors
	fe.Add("day", errors.New("day is required"))
	fe.Add("start", errors.New("start is malformed"))

	err := fe.ToError()
	require.True(t, errs.IsError(err))
	assert.True(t, errs.GetError(err).Code.Equal(errs.InvalidArgument))

	fields := fe.Fields()
	assert.Equal(t, "day is required", fields["day"])
	assert.Equal(t, "start is malformed", fields["start"])
}

func TestCheck(t *testing.T) {
	val := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: "not-an-email"}

	err := errs.Check(val)
	require.Error(t, err)

	var fe errs.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Fields(), "email")
}
