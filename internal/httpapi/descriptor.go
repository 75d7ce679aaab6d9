package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// RequestIDHeader carries a fresh id for every attempt.
const RequestIDHeader = "X-Request-ID"

// Descriptor is an immutable description of one request. A new
// *http.Request is built from it for each attempt; a changed credential
// requires a new Descriptor.
type Descriptor struct {
	method     string
	url        string
	body       []byte
	credential string
}

// NewDescriptor validates the method and URL and serializes body as JSON.
// A nil body sends no payload.
func NewDescriptor(method, rawURL string, body any, credential string) (Descriptor, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return Descriptor{}, fmt.Errorf("unsupported method %q", method)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Descriptor{}, fmt.Errorf("invalid url %q: scheme and host are required", rawURL)
	}

	d := Descriptor{method: method, url: u.String(), credential: credential}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Descriptor{}, fmt.Errorf("encode request body: %w", err)
		}
		d.body = b
	}
	return d, nil
}

func (d Descriptor) Method() string { return d.method }
func (d Descriptor) URL() string    { return d.url }

// Body returns a copy of the serialized JSON body, or nil.
func (d Descriptor) Body() []byte {
	if d.body == nil {
		return nil
	}
	return bytes.Clone(d.body)
}

func (d Descriptor) newRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if d.body != nil {
		body = bytes.NewReader(d.body)
	}
	req, err := http.NewRequestWithContext(ctx, d.method, d.url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if d.credential != "" {
		req.Header.Set("Authorization", "Bearer "+d.credential)
	}
	return req, nil
}
