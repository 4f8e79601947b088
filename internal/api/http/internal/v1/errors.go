package v1

import (
	"errors"
	"net/http"

	"github.com/signupflow/backend/internal/service"
)

// Error markers exposed to clients. Anything unrecognized collapses to
// INTERNAL_ERROR so internal detail never leaks.
const (
	MarkerUserAlreadyExists  = "USER_ALREADY_EXISTS"
	MarkerUserNotFound       = "USER_NOT_FOUND"
	MarkerOTPNotFound        = "OTP_NOT_FOUND"
	MarkerOTPExpired         = "OTP_EXPIRED"
	MarkerOTPTooManyAttempts = "OTP_TOO_MANY_ATTEMPTS"
	MarkerOTPInvalid         = "OTP_INVALID"
	MarkerInvalidEmail       = "INVALID_EMAIL"
	MarkerInvalidPassword    = "INVALID_PASSWORD"
	MarkerInvalidInput       = "INVALID_INPUT"
	MarkerInternalError      = "INTERNAL_ERROR"
)

type ErrorStruct struct {
	Error string `json:"error"`
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExist):
		return http.StatusConflict, MarkerUserAlreadyExists
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, MarkerUserNotFound
	case errors.Is(err, service.ErrOTPNotFound):
		return http.StatusNotFound, MarkerOTPNotFound
	case errors.Is(err, service.ErrOTPExpired):
		return http.StatusBadRequest, MarkerOTPExpired
	case errors.Is(err, service.ErrOTPTooManyAttempts):
		return http.StatusTooManyRequests, MarkerOTPTooManyAttempts
	case errors.Is(err, service.ErrOTPInvalid):
		return http.StatusBadRequest, MarkerOTPInvalid
	default:
		return http.StatusInternalServerError, MarkerInternalError
	}
}
