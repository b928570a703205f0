package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/service/reservation"
	"github.com/Domenick1991/trainticket/internal/upstream"
)

// statusFor maps a service error to the HTTP status the caller sees. ctx is
// the request-scoped context the service ran under.
func statusFor(ctx context.Context, err error) int {
	switch {
	case errors.Is(err, reservation.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case upstream.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
