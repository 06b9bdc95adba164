// Package client is the typed HTTP client for the coordinator API.
// The registry, feed and chat components drive the backend through it
// rather than holding raw HTTP code themselves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

// Failure taxonomy. Every call that fails returns one of these in its
// error chain; callers branch with errors.Is. There is no automatic
// retry at this layer: a NetworkFailure is reported once and the user
// re-triggers.
var (
	ErrNetwork      = errors.New("network failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

const defaultTimeout = 15 * time.Second

type Client struct {
	BaseURL string
	HTTP    *http.Client

	token string
}

// New builds a client with a cookie jar so the session cookie set at
// login rides along on subsequent credentialed requests.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}
}

// SetToken switches the client to bearer-token transport, used by
// non-browser callers.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope mirrors the server's ServerResponse.
type envelope struct {
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) get(ctx context.Context, path string, params interface{}, out interface{}) error {
	url := c.BaseURL + path
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return errors.Wrap(err, "encoding query params")
		}
		url += "?" + values.Encode()
	}
	return c.do(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, c.BaseURL+path, nil, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}
	return c.do(ctx, method, c.BaseURL+path, reader, out)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.WithMessage(ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithMessage(ErrNetwork, err.Error())
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return errors.Wrap(err, "decoding response envelope")
		}
	}

	if resp.StatusCode >= 400 {
		return errors.WithMessage(statusError(resp.StatusCode), env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "decoding response data")
		}
	}
	return nil
}

func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	default:
		return errors.WithMessage(ErrServer, fmt.Sprintf("status %d", code))
	}
}
