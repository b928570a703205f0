package upstream

import (
	"context"
	"net/http"
	"net/url"
)

type SecurityClient struct {
	c *Client
}

func NewSecurityClient(c *Client) *SecurityClient {
	return &SecurityClient{c: c}
}

// Check asks whether the account may purchase right now.
func (s *SecurityClient) Check(ctx context.Context, accountID string) error {
	return s.c.call(ctx, http.MethodGet, "/securityConfigs/"+url.PathEscape(accountID), nil, nil)
}
