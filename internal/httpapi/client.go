package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dotcommander/dreamboard/internal/metrics"
)

// TokenSource supplies a bearer credential for one logical call. It is
// consulted on every call; implementations must not cache across calls.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, bool)

func (f TokenFunc) Token(ctx context.Context) (string, bool) { return f(ctx) }

// Config configures a Client.
type Config struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient Doer
	Retry      RetryConfig
}

// Client composes credential resolution, the retrying executor and the
// classifier for one resource family.
type Client struct {
	baseURL  string
	tokens   TokenSource
	doer     Doer
	retry    RetryConfig
	resource string
	messages Messages
	exec     *Executor
}

// New validates cfg and returns a Client with no resource label.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token source is required")
	}
	if _, err := NewDescriptor(http.MethodGet, cfg.BaseURL, nil, ""); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
		doer:    cfg.HTTPClient,
		retry:   cfg.Retry,
	}
	c.exec = NewExecutor(c.doer, c.retry, c.resource)
	return c, nil
}

// ForResource returns a copy labelled with resource and its error wording.
func (c *Client) ForResource(resource string, msgs Messages) *Client {
	cp := *c
	cp.resource = resource
	cp.messages = msgs
	cp.exec = NewExecutor(cp.doer, cp.retry, resource)
	cp.exec.newTimer = c.exec.newTimer
	return &cp
}

// WithTokens returns a copy that resolves credentials from tokens.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

func (c *Client) Resource() string { return c.resource }

// Do resolves a credential, executes the request and classifies failures.
// A missing credential fails with KindNotAuthenticated before any network call.
func (c *Client) Do(ctx context.Context, method, path string, q *Query, body any) (RawResponse, error) {
	token, ok := c.tokens.Token(ctx)
	if !ok || token == "" {
		return RawResponse{}, c.fail(&Error{Kind: KindNotAuthenticated, Message: "no credential available"})
	}

	d, err := NewDescriptor(method, c.url(path, q), body, token)
	if err != nil {
		return RawResponse{}, err
	}

	resp, err := c.exec.Execute(ctx, d)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return RawResponse{}, c.fail(apiErr)
		}
		return RawResponse{}, err
	}

	if !resp.OK() {
		return resp, c.fail(Classify(resp, c.messages))
	}
	return resp, nil
}

func (c *Client) fail(e *Error) *Error {
	e.Resource = c.resource
	metrics.APIErrors.WithLabelValues(c.resource, string(e.Kind)).Inc()
	return e
}

func (c *Client) url(path string, q *Query) string {
	u := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Get performs a GET and decodes the JSON response into T.
func Get[T any](ctx context.Context, c *Client, path string, q *Query) (T, error) {
	return Send[T](ctx, c, http.MethodGet, path, q, nil)
}

// Send performs a request and decodes the JSON response into T. An empty
// body decodes to the zero value.
func Send[T any](ctx context.Context, c *Client, method, path string, q *Query, body any) (T, error) {
	var out T
	resp, err := c.Do(ctx, method, path, q, body)
	if err != nil {
		return out, err
	}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, c.fail(&Error{
			Kind:    KindGeneric,
			Status:  resp.StatusCode,
			Message: "invalid response body",
			Err:     err,
		})
	}
	return out, nil
}

// DeleteResult is the outcome of a DELETE.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Delete performs a DELETE. A 204 or empty body yields {success: true}
// instead of a JSON parse failure.
func Delete(ctx context.Context, c *Client, path string) (DeleteResult, error) {
	resp, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return DeleteResult{}, err
	}
	if resp.StatusCode == http.StatusNoContent || len(strings.TrimSpace(string(resp.Body))) == 0 {
		return DeleteResult{Success: true}, nil
	}
	var out DeleteResult
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return DeleteResult{}, c.fail(&Error{
			Kind:    KindGeneric,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("invalid delete response for %s", path),
			Err:     err,
		})
	}
	return out, nil
}
