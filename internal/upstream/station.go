package upstream

import (
	"context"
	"net/http"
	"net/url"
)

type StationClient struct {
	c *Client
}

func NewStationClient(c *Client) *StationClient {
	return &StationClient{c: c}
}

// ResolveID maps a station name to its canonical id.
func (s *StationClient) ResolveID(ctx context.Context, name string) (string, error) {
	var id string
	if err := s.c.callData(ctx, http.MethodGet, "/stations/id/"+url.PathEscape(name), nil, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", s.c.unavailable(errMissingData)
	}
	return id, nil
}
