package upstream

import (
	"context"
	"net/http"

	"github.com/Domenick1991/trainticket/internal/domain"
)

type TravelClient struct {
	c *Client
}

func NewTravelClient(c *Client) *TravelClient {
	return &TravelClient{c: c}
}

// TripDetail fetches schedule, remaining capacity and prices for a trip leg.
func (s *TravelClient) TripDetail(ctx context.Context, q domain.TripQuery) (*domain.TripAvailability, error) {
	var trip domain.TripAvailability
	if err := s.c.callData(ctx, http.MethodPost, "/trip_detail", q, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}
