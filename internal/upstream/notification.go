package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/trainticket/internal/domain"
)

type UserClient struct {
	c *Client
}

func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

func (s *UserClient) Get(ctx context.Context, accountID string) (*domain.User, error) {
	var user domain.User
	if err := s.c.callData(ctx, http.MethodGet, "/users/id/"+url.PathEscape(accountID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type NotificationClient struct {
	c *Client
}

func NewNotificationClient(c *Client) *NotificationClient {
	return &NotificationClient{c: c}
}

func (s *NotificationClient) PreserveSuccess(ctx context.Context, info domain.NotifyInfo) error {
	return s.c.call(ctx, http.MethodPost, "/notification/preserve_success", info, nil)
}
