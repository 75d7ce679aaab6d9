// Package visionboard manages vision board items and their history.
package visionboard

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dotcommander/dreamboard/internal/degrade"
	"github.com/dotcommander/dreamboard/internal/httpapi"
)

const (
	resource  = "visionboard"
	itemsPath = "/api/vision-board/items"
)

var messages = httpapi.Messages{
	InsufficientData: "Not enough data to build the vision board",
	Failure:          "Failed to load vision board",
}

var errItemID = errors.New("item id is required")

type Client struct {
	api *httpapi.Client
}

// New builds the client. tokens, when non-nil, replaces the base client's
// credential source; callers pass a resolver that also consults cookies.
func New(api *httpapi.Client, tokens httpapi.TokenSource) *Client {
	if tokens != nil {
		api = api.WithTokens(tokens)
	}
	return &Client{api: api.ForResource(resource, messages)}
}

// Items lists board items, or an empty list on failure.
func (c *Client) Items(ctx context.Context, f ItemFilter) (degrade.Result[[]Item], error) {
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "items"}, []Item{},
		func(ctx context.Context) ([]Item, error) {
			q := httpapi.NewQuery().Repeat("tag", f.Tags).Set("status", f.Status)
			items, err := httpapi.Get[[]Item](ctx, c.api, itemsPath, q)
			if err != nil {
				return nil, err
			}
			if items == nil {
				items = []Item{}
			}
			return items, nil
		})
}

// History lists board changes, or an empty page on failure.
func (c *Client) History(ctx context.Context, p Page) (degrade.Result[HistoryPage], error) {
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "history"}, HistoryPage{Entries: []HistoryEntry{}},
		func(ctx context.Context) (HistoryPage, error) {
			q := httpapi.NewQuery().Int("limit", p.Limit).Int("offset", p.Offset)
			page, err := httpapi.Get[HistoryPage](ctx, c.api, "/api/vision-board/history", q)
			if err != nil {
				return HistoryPage{}, err
			}
			if page.Entries == nil {
				page.Entries = []HistoryEntry{}
			}
			return page, nil
		})
}

func (c *Client) CreateItem(ctx context.Context, item NewItem) (Item, error) {
	if item.Title == "" {
		return Item{}, errors.New("item title is required")
	}
	return httpapi.Send[Item](ctx, c.api, http.MethodPost, itemsPath, nil, item)
}

func (c *Client) UpdateItem(ctx context.Context, id string, upd ItemUpdate) (Item, error) {
	if id == "" {
		return Item{}, errItemID
	}
	return httpapi.Send[Item](ctx, c.api, http.MethodPut, itemsPath+"/"+url.PathEscape(id), nil, upd)
}

func (c *Client) DeleteItem(ctx context.Context, id string) (httpapi.DeleteResult, error) {
	if id == "" {
		return httpapi.DeleteResult{}, errItemID
	}
	return httpapi.Delete(ctx, c.api, itemsPath+"/"+url.PathEscape(id))
}
