// Package milestones reads and edits milestone events.
package milestones

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/dotcommander/dreamboard/internal/degrade"
	"github.com/dotcommander/dreamboard/internal/httpapi"
)

const (
	resource   = "milestones"
	eventsPath = "/api/milestones/events"
)

var messages = httpapi.Messages{
	InsufficientData: "Not enough data to list milestone events",
	Failure:          "Failed to load milestone events",
}

type Client struct {
	api *httpapi.Client
}

func New(api *httpapi.Client) *Client {
	return &Client{api: api.ForResource(resource, messages)}
}

// Lookup fetches events for one milestone (flat list) or several (map keyed
// by id, sent as one comma-joined parameter). Failures yield an empty set of
// the matching form.
func (c *Client) Lookup(ctx context.Context, ids ...string) (degrade.Result[EventSet], error) {
	if len(ids) == 0 || slices.Contains(ids, "") {
		return degrade.Result[EventSet]{}, errors.New("milestone ids must be non-empty")
	}
	batched := len(ids) > 1
	empty := EventSet{Batched: batched}
	if batched {
		empty.ByMilestone = map[string][]Event{}
	} else {
		empty.Events = []Event{}
	}

	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "lookup"}, empty,
		func(ctx context.Context) (EventSet, error) {
			if batched {
				m, err := httpapi.Get[map[string][]Event](ctx, c.api, eventsPath,
					httpapi.NewQuery().List("milestone_ids", ids))
				if err != nil {
					return EventSet{}, err
				}
				if m == nil {
					m = map[string][]Event{}
				}
				return EventSet{Batched: true, ByMilestone: m}, nil
			}
			events, err := httpapi.Get[[]Event](ctx, c.api, eventsPath,
				httpapi.NewQuery().Set("milestone_id", ids[0]))
			if err != nil {
				return EventSet{}, err
			}
			if events == nil {
				events = []Event{}
			}
			return EventSet{Events: events}, nil
		})
}

func (c *Client) Create(ctx context.Context, ev NewEvent) (Event, error) {
	if ev.MilestoneID == "" {
		return Event{}, errors.New("milestone id is required")
	}
	return httpapi.Send[Event](ctx, c.api, http.MethodPost, eventsPath, nil, ev)
}

func (c *Client) Update(ctx context.Context, id string, upd EventUpdate) (Event, error) {
	if id == "" {
		return Event{}, errors.New("event id is required")
	}
	return httpapi.Send[Event](ctx, c.api, http.MethodPut, eventsPath+"/"+url.PathEscape(id), nil, upd)
}

func (c *Client) Delete(ctx context.Context, id string) (httpapi.DeleteResult, error) {
	if id == "" {
		return httpapi.DeleteResult{}, errors.New("event id is required")
	}
	return httpapi.Delete(ctx, c.api, eventsPath+"/"+url.PathEscape(id))
}
