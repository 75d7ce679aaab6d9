// Package progress tracks dream progress timelines.
package progress

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dotcommander/dreamboard/internal/degrade"
	"github.com/dotcommander/dreamboard/internal/httpapi"
)

const resource = "progress"

var messages = httpapi.Messages{
	InsufficientData: "Not enough progress history for this dream",
	Failure:          "Failed to load dream progress",
}

var errDreamID = errors.New("dream id is required")

type Client struct {
	api *httpapi.Client
}

func New(api *httpapi.Client) *Client {
	return &Client{api: api.ForResource(resource, messages)}
}

// List returns a dream's timeline, or an empty page when it cannot be loaded.
func (c *Client) List(ctx context.Context, dreamID string, opts ListOptions) (degrade.Result[Page], error) {
	if dreamID == "" {
		return degrade.Result[Page]{}, errDreamID
	}
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "list"}, Page{Entries: []Entry{}},
		func(ctx context.Context) (Page, error) {
			q := httpapi.NewQuery().
				Set("dream_id", dreamID).
				Int("limit", opts.Limit).
				Int("offset", opts.Offset).
				Set("from", formatTime(opts.From)).
				Set("to", formatTime(opts.To))
			page, err := httpapi.Get[Page](ctx, c.api, "/api/dreams/progress", q)
			if err != nil {
				return Page{}, err
			}
			if page.Entries == nil {
				page.Entries = []Entry{}
			}
			return page, nil
		})
}

// Latest returns the most recent entry, or nil when there is none or it cannot be loaded.
func (c *Client) Latest(ctx context.Context, dreamID string) (degrade.Result[*Entry], error) {
	if dreamID == "" {
		return degrade.Result[*Entry]{}, errDreamID
	}
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "latest"}, (*Entry)(nil),
		func(ctx context.Context) (*Entry, error) {
			return httpapi.Get[*Entry](ctx, c.api, "/api/dreams/progress/latest",
				httpapi.NewQuery().Set("dream_id", dreamID))
		})
}

// Record stores an absolute progress value.
func (c *Client) Record(ctx context.Context, req RecordRequest) (Entry, error) {
	if req.DreamID == "" {
		return Entry{}, errDreamID
	}
	return httpapi.Send[Entry](ctx, c.api, http.MethodPost, "/api/dreams/progress", nil, req)
}

// Adjust relays a delta; the server combines it with the previous value and
// the result is returned exactly as reported.
func (c *Client) Adjust(ctx context.Context, req AdjustRequest) (AdjustResult, error) {
	if req.DreamID == "" {
		return AdjustResult{}, errDreamID
	}
	return httpapi.Send[AdjustResult](ctx, c.api, http.MethodPost, "/api/dreams/progress/adjust", nil, req)
}

// Delete removes a progress entry.
func (c *Client) Delete(ctx context.Context, entryID string) (httpapi.DeleteResult, error) {
	if entryID == "" {
		return httpapi.DeleteResult{}, errors.New("entry id is required")
	}
	return httpapi.Delete(ctx, c.api, "/api/dreams/progress/"+url.PathEscape(entryID))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
