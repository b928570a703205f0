package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Domenick1991/trainticket/internal/domain"
)

type AssuranceClient struct {
	c *Client
}

func NewAssuranceClient(c *Client) *AssuranceClient {
	return &AssuranceClient{c: c}
}

func (s *AssuranceClient) Create(ctx context.Context, typeIndex int, orderID string) error {
	path := "/assurances/" + strconv.Itoa(typeIndex) + "/" + url.PathEscape(orderID)
	var binding domain.AssuranceBinding
	return s.c.call(ctx, http.MethodGet, path, nil, &binding)
}

type FoodClient struct {
	c *Client
}

func NewFoodClient(c *Client) *FoodClient {
	return &FoodClient{c: c}
}

func (s *FoodClient) Create(ctx context.Context, order domain.FoodOrder) error {
	return s.c.call(ctx, http.MethodPost, "/orders", order, nil)
}

type ConsignClient struct {
	c *Client
}

func NewConsignClient(c *Client) *ConsignClient {
	return &ConsignClient{c: c}
}

func (s *ConsignClient) Create(ctx context.Context, consign domain.Consign) error {
	return s.c.call(ctx, http.MethodPost, "/consigns", consign, nil)
}
