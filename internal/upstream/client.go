// Package upstream holds the HTTP adapters for every service the
// reservation saga calls. Each adapter issues exactly one request per call,
// with no retries and no caching.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type authKey struct{}

// WithAuthorization stores the caller's Authorization header so adapters
// forward it downstream.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, authKey{}, header)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authKey{}).(string)
	return v
}

type envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// Client speaks the {status, msg, data} protocol with one collaborator.
type Client struct {
	service string
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func NewClient(service, baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
	}
}

func (c *Client) Service() string { return c.service }

var errMissingData = errors.New("success answer carried no data")

// call sends body (if any) and decodes the envelope's data into out (if any).
// A success answer without data leaves out untouched.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, false)
}

// callData is call for lookups whose answer is meaningless without data; a
// success answer with missing or null data is reported as unavailable.
func (c *Client) callData(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, requireData bool) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return c.unavailable(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := authorizationFrom(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return c.unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return c.unavailable(fmt.Errorf("unexpected http status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return c.unavailable(fmt.Errorf("decode envelope: %w", err))
	}
	if env.Status != domain.StatusOK {
		return &RejectedError{Service: c.service, Msg: env.Msg}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		if requireData {
			return c.unavailable(errMissingData)
		}
		return nil
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return c.unavailable(fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func (c *Client) unavailable(err error) error {
	return &UnavailableError{Service: c.service, Err: err}
}
