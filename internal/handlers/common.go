package handlers

import (
	"errors"
	"net/http"

	"github.com/JException/mentee-hotline/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// statusFor maps service sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAccessCode):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateGroupNumber),
		errors.Is(err, services.ErrDuplicateAccessCode):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrHeartbeatUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
