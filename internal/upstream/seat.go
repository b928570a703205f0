package upstream

import (
	"context"
	"net/http"

	"github.com/Domenick1991/trainticket/internal/domain"
)

type SeatClient struct {
	c *Client
}

func NewSeatClient(c *Client) *SeatClient {
	return &SeatClient{c: c}
}

func (s *SeatClient) Allocate(ctx context.Context, req domain.SeatRequest) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := s.c.callData(ctx, http.MethodPost, "/seats", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Release hands an allocated seat back to the pool.
func (s *SeatClient) Release(ctx context.Context, r domain.SeatRelease) error {
	return s.c.call(ctx, http.MethodPost, "/seats/release", r, nil)
}
