package errs

import (
	"fmt"
	"net/http"
)

// ErrCode represents a code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the code.
func (ec ErrCode) String() string {
	return codeNames[ec.value]
}

// UnmarshalText implement the unmarshal interface for JSON conversions.
func (ec *ErrCode) UnmarshalText(data []byte) error {
	code, exists := codeNumbers[string(data)]
	if !exists {
		return fmt.Errorf("err code %q does not exist", string(data))
	}

	*ec = code

	return nil
}

// MarshalText implement the marshal interface for JSON conversions.
func (ec ErrCode) MarshalText() ([]byte, error) {
	return []byte(ec.String()), nil
}

// Equal provides support for the go-cmp package and testing.
func (ec ErrCode) Equal(ec2 ErrCode) bool {
	return ec.value == ec2.value
}

// =============================================================================

// Set of error codes for handling different scenarios.
var (
	OK                 = ErrCode{value: 0}
	Canceled           = ErrCode{value: 1}
	Unknown            = ErrCode{value: 2}
	InvalidArgument    = ErrCode{value: 3}
	DeadlineExceeded   = ErrCode{value: 4}
	NotFound           = ErrCode{value: 5}
	AlreadyExists      = ErrCode{value: 6}
	PermissionDenied   = ErrCode{value: 7}
	ResourceExhausted  = ErrCode{value: 8}
	FailedPrecondition = ErrCode{value: 9}
	Aborted            = ErrCode{value: 10}
	OutOfRange         = ErrCode{value: 11}
	Unimplemented      = ErrCode{value: 12}
	Internal           = ErrCode{value: 13}
	Unavailable        = ErrCode{value: 14}
	DataLoss           = ErrCode{value: 15}
	Unauthenticated    = ErrCode{value: 16}
	InternalOnlyLog    = ErrCode{value: 17}
)

var codeNames = map[int]string{
	OK.value:                 "ok",
	Canceled.value:           "canceled",
	Unknown.value:            "unknown",
	InvalidArgument.value:    "invalid_argument",
	DeadlineExceeded.value:   "deadline_exceeded",
	NotFound.value:           "not_found",
	AlreadyExists.value:      "already_exists",
	PermissionDenied.value:   "permission_denied",
	ResourceExhausted.value:  "resource_exhausted",
	FailedPrecondition.value: "failed_precondition",
	Aborted.value:            "aborted",
	OutOfRange.value:         "out_of_range",
	Unimplemented.value:      "unimplemented",
	Internal.value:           "internal",
	Unavailable.value:        "unavailable",
	DataLoss.value:           "data_loss",
	Unauthenticated.value:    "unauthenticated",
	InternalOnlyLog.value:    "internal",
}

var codeNumbers = map[string]ErrCode{
	"ok":                  OK,
	"canceled":            Canceled,
	"unknown":             Unknown,
	"invalid_argument":    InvalidArgument,
	"deadline_exceeded":   DeadlineExceeded,
	"not_found":           NotFound,
	"already_exists":      AlreadyExists,
	"permission_denied":   PermissionDenied,
	"resource_exhausted":  ResourceExhausted,
	"failed_precondition": FailedPrecondition,
	"aborted":             Aborted,
	"out_of_range":        OutOfRange,
	"unimplemented":       Unimplemented,
	"internal":            Internal,
	"unavailable":         Unavailable,
	"data_loss":           DataLoss,
	"unauthenticated":     Unauthenticated,
}

var httpStatus = map[int]int{
	OK.value:                 http.StatusOK,
	Canceled.value:           http.StatusGatewayTimeout,
	Unknown.value:            http.StatusInternalServerError,
	InvalidArgument.value:    http.StatusBadRequest,
	DeadlineExceeded.value:   http.StatusGatewayTimeout,
	NotFound.value:           http.StatusNotFound,
	AlreadyExists.value:      http.StatusConflict,
	PermissionDenied.value:   http.StatusForbidden,
	ResourceExhausted.value:  http.StatusTooManyRequests,
	FailedPrecondition.value: http.StatusBadRequest,
	Aborted.value:            http.StatusConflict,
	OutOfRange.value:         http.StatusBadRequest,
	Unimplemented.value:      http.StatusNotImplemented,
	Internal.value:           http.StatusInternalServerError,
	Unavailable.value:        http.StatusServiceUnavailable,
	DataLoss.value:           http.StatusInternalServerError,
	Unauthenticated.value:    http.StatusUnauthorized,
	InternalOnlyLog.value:    http.StatusInternalServerError,
}
