package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/trainticket/internal/domain"
)

type ContactsClient struct {
	c *Client
}

func NewContactsClient(c *Client) *ContactsClient {
	return &ContactsClient{c: c}
}

func (s *ContactsClient) Get(ctx context.Context, contactsID string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := s.c.callData(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactsID), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}
