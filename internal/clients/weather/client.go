// Package weather reads the derived weather state of a dream.
package weather

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dotcommander/dreamboard/internal/degrade"
	"github.com/dotcommander/dreamboard/internal/httpapi"
)

const resource = "weather"

var messages = httpapi.Messages{
	InsufficientData: "Not enough recent activity to compute dream weather",
	Failure:          "Failed to fetch dream weather",
}

var errDreamID = errors.New("dream id is required")

type Client struct {
	api *httpapi.Client
}

func New(api *httpapi.Client) *Client {
	return &Client{api: api.ForResource(resource, messages)}
}

func statePath(dreamID string) string {
	return "/api/dreams/" + url.PathEscape(dreamID) + "/weather"
}

// Get returns the current state, which the server may serve from cache.
// Failures yield nil flagged as degraded.
func (c *Client) Get(ctx context.Context, dreamID string) (degrade.Result[*State], error) {
	if dreamID == "" {
		return degrade.Result[*State]{}, errDreamID
	}
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "get"}, (*State)(nil),
		func(ctx context.Context) (*State, error) {
			return httpapi.Get[*State](ctx, c.api, statePath(dreamID), nil)
		})
}

// Refresh forces the server to recompute the state. It sends a POST with no body.
func (c *Client) Refresh(ctx context.Context, dreamID string) (State, error) {
	if dreamID == "" {
		return State{}, errDreamID
	}
	return httpapi.Send[State](ctx, c.api, http.MethodPost, statePath(dreamID)+"/refresh", nil, nil)
}

// History returns past states, or an empty page on failure.
func (c *Client) History(ctx context.Context, dreamID string, limit *int) (degrade.Result[HistoryPage], error) {
	if dreamID == "" {
		return degrade.Result[HistoryPage]{}, errDreamID
	}
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "history"}, HistoryPage{Entries: []State{}},
		func(ctx context.Context) (HistoryPage, error) {
			page, err := httpapi.Get[HistoryPage](ctx, c.api, statePath(dreamID)+"/history",
				httpapi.NewQuery().Int("limit", limit))
			if err != nil {
				return HistoryPage{}, err
			}
			if page.Entries == nil {
				page.Entries = []State{}
			}
			return page, nil
		})
}
