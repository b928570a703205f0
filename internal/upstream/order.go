package upstream

import (
	"context"
	"net/http"

	"github.com/Domenick1991/trainticket/internal/domain"
)

type OrderClient struct {
	c *Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

// Create persists the order. The service echoes the stored record; when it
// answers without data the submitted order is returned.
func (s *OrderClient) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	created := order
	if err := s.c.call(ctx, http.MethodPost, "/order", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
