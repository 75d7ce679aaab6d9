// Package insights reads and manages generated insights.
package insights

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dotcommander/dreamboard/internal/degrade"
	"github.com/dotcommander/dreamboard/internal/httpapi"
)

const resource = "insights"

var messages = httpapi.Messages{
	InsufficientData: "Not enough activity yet to generate insights",
	Failure:          "Failed to fetch insights",
}

var errInsightID = errors.New("insight id is required")

type Client struct {
	api *httpapi.Client
}

func New(api *httpapi.Client) *Client {
	return &Client{api: api.ForResource(resource, messages)}
}

// List returns insights. A user without enough history gets WelcomePage
// flagged as degraded; any other failure is returned.
func (c *Client) List(ctx context.Context, opts Options) (degrade.Result[Page], error) {
	return degrade.Seeded(ctx, degrade.Op{Resource: resource, Name: "list"}, WelcomePage,
		func(ctx context.Context) (Page, error) { return c.fetch(ctx, opts) },
		httpapi.KindInsufficientData,
	)
}

// Refresh is List with the server cache bypassed.
func (c *Client) Refresh(ctx context.Context, opts Options) (degrade.Result[Page], error) {
	opts.ForceRefresh = true
	return c.List(ctx, opts)
}

func (c *Client) fetch(ctx context.Context, opts Options) (Page, error) {
	q := httpapi.NewQuery().
		List("types", opts.Types).
		List("categories", opts.Categories).
		Set("timeRange", opts.TimeRange).
		Float("minConfidence", opts.MinConfidence).
		Int("maxResults", opts.MaxResults).
		Flag("forceRefresh", opts.ForceRefresh)

	env, err := httpapi.Get[envelope[Page]](ctx, c.api, "/api/insights", q)
	if err != nil {
		return Page{}, err
	}
	if err := c.check(env.Success, env.Message); err != nil {
		return Page{}, err
	}
	if env.Data.Insights == nil {
		env.Data.Insights = []Insight{}
	}
	return env.Data, nil
}

// Get returns one insight, or nil (degraded) when it cannot be loaded.
func (c *Client) Get(ctx context.Context, id string) (degrade.Result[*Insight], error) {
	if id == "" {
		return degrade.Result[*Insight]{}, errInsightID
	}
	return degrade.Empty(ctx, degrade.Op{Resource: resource, Name: "get"}, (*Insight)(nil),
		func(ctx context.Context) (*Insight, error) {
			env, err := httpapi.Get[envelope[single]](ctx, c.api, "/api/insights/"+url.PathEscape(id), nil)
			if err != nil {
				return nil, err
			}
			if err := c.check(env.Success, env.Message); err != nil {
				return nil, err
			}
			return &env.Data.Insight, nil
		})
}

// Dismiss hides an insight.
func (c *Client) Dismiss(ctx context.Context, id string) (Insight, error) {
	if id == "" {
		return Insight{}, errInsightID
	}
	env, err := httpapi.Send[envelope[single]](ctx, c.api, http.MethodPatch,
		"/api/insights/"+url.PathEscape(id), nil, map[string]bool{"dismissed": true})
	if err != nil {
		return Insight{}, err
	}
	if err := c.check(env.Success, env.Message); err != nil {
		return Insight{}, err
	}
	return env.Data.Insight, nil
}

// SubmitFeedback records whether an insight was helpful.
func (c *Client) SubmitFeedback(ctx context.Context, id string, fb Feedback) error {
	if id == "" {
		return errInsightID
	}
	env, err := httpapi.Send[envelope[struct{}]](ctx, c.api, http.MethodPost,
		"/api/insights/"+url.PathEscape(id)+"/feedback", nil, fb)
	if err != nil {
		return err
	}
	return c.check(env.Success, env.Message)
}

// check turns a 2xx envelope reporting success=false into a generic error.
func (c *Client) check(success bool, message string) error {
	if success {
		return nil
	}
	if message == "" {
		message = messages.Failure
	}
	return &httpapi.Error{Kind: httpapi.KindGeneric, Resource: resource, Status: http.StatusOK, Message: message}
}
