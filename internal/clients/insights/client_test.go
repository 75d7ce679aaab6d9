package insights_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/dreamboard/internal/clients/insights"
	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/mockapi"
	"github.com/dotcommander/dreamboard/internal/mockapi/mockapitest"
)

func setup(t *testing.T, opts ...mockapi.Option) (*mockapi.Server, *insights.Client) {
	t.Helper()
	s, srv := mockapitest.Start(t, opts...)
	return s, insights.New(mockapitest.NewClient(t, srv.URL, nil))
}

func TestList_Live(t *testing.T) {
	_, c := setup(t)

	res, err := c.List(context.Background(), insights.Options{})
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Len(t, res.Value.Insights, 3)
	require.Equal(t, 3, res.Value.Metadata.TotalGenerated)
	require.NotNil(t, res.Value.Metadata.GeneratedAt)
}

func TestList_InsufficientDataServesWelcomeInsights(t *testing.T) {
	s, c := setup(t, mockapi.WithInsufficientInsights())

	res, err := c.List(context.Background(), insights.Options{})
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.ErrorIs(t, res.Cause, httpapi.ErrInsufficientData)
	require.Len(t, res.Value.Insights, 2)
	require.Equal(t, "welcome-1", res.Value.Insights[0].ID)
	require.Equal(t, "welcome-2", res.Value.Insights[1].ID)
	require.Equal(t, 1, s.Hits(mockapi.RouteInsightsList), "classified responses are not retried")
}

func TestList_OtherFailuresAreReturned(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteInsightsList, http.StatusInternalServerError, `{}`, 1)

	_, err := c.List(context.Background(), insights.Options{})
	require.Error(t, err)
	var apiErr *httpapi.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, httpapi.KindGeneric, apiErr.Kind)
	require.Equal(t, "Failed to fetch insights: Internal Server Error", apiErr.Message)
}

func TestList_RateLimitIsNotDegraded(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteInsightsList, http.StatusTooManyRequests, ``, 1)

	_, err := c.List(context.Background(), insights.Options{})
	require.ErrorIs(t, err, httpapi.ErrRateLimited)
}

func TestList_NotAuthenticatedSkipsNetwork(t *testing.T) {
	s, srv := mockapitest.Start(t)
	c := insights.New(mockapitest.NewClient(t, srv.URL, mockapitest.StaticToken("")))

	_, err := c.List(context.Background(), insights.Options{})
	require.ErrorIs(t, err, httpapi.ErrNotAuthenticated)
	require.Zero(t, s.Hits(mockapi.RouteInsightsList))
}

func TestList_SendsOnlyProvidedFilters(t *testing.T) {
	var seen []string
	srv := httpRecorder(t, &seen)
	c := insights.New(mockapitest.NewClient(t, srv, nil))

	minConf, maxResults := 0.5, 2
	_, err := c.List(context.Background(), insights.Options{
		Types:         []string{"pattern", "trend"},
		MinConfidence: &minConf,
		MaxResults:    &maxResults,
	})
	require.NoError(t, err)
	_, err = c.List(context.Background(), insights.Options{})
	require.NoError(t, err)

	require.Equal(t, []string{
		"maxResults=2&minConfidence=0.5&types=pattern%2Ctrend",
		"",
	}, seen)
}

func TestList_FiltersAndCacheMetadata(t *testing.T) {
	_, c := setup(t)
	minConf := 0.6

	res, err := c.List(context.Background(), insights.Options{MinConfidence: &minConf})
	require.NoError(t, err)
	require.Len(t, res.Value.Insights, 2)
	require.False(t, res.Value.Metadata.CacheHit)

	res, err = c.List(context.Background(), insights.Options{})
	require.NoError(t, err)
	require.True(t, res.Value.Metadata.CacheHit)

	res, err = c.Refresh(context.Background(), insights.Options{})
	require.NoError(t, err)
	require.False(t, res.Value.Metadata.CacheHit)
}

func TestList_RepeatedCallsAreIndependent(t *testing.T) {
	s, c := setup(t)

	for range 2 {
		_, err := c.List(context.Background(), insights.Options{TimeRange: "7d"})
		require.NoError(t, err)
	}
	require.Equal(t, 2, s.Hits(mockapi.RouteInsightsList))
}

func TestList_RetriesDroppedConnections(t *testing.T) {
	s, c := setup(t)
	s.DropNext(mockapi.RouteInsightsList, 2)

	res, err := c.List(context.Background(), insights.Options{})
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Equal(t, 3, s.Hits(mockapi.RouteInsightsList))
}

func TestList_TransportExhaustionIsReturned(t *testing.T) {
	s, c := setup(t)
	s.DropNext(mockapi.RouteInsightsList, 3)

	_, err := c.List(context.Background(), insights.Options{})
	require.ErrorIs(t, err, httpapi.ErrTransport)
	require.Equal(t, 3, s.Hits(mockapi.RouteInsightsList))
}

func TestGet_DegradesToNil(t *testing.T) {
	_, c := setup(t)

	res, err := c.Get(context.Background(), "ins-2")
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Equal(t, "Steady climb", res.Value.Title)

	res, err = c.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Nil(t, res.Value)

	_, err = c.Get(context.Background(), "")
	require.Error(t, err)
}

func TestDismissAndFeedback(t *testing.T) {
	s, c := setup(t)

	in, err := c.Dismiss(context.Background(), "ins-1")
	require.NoError(t, err)
	require.True(t, in.Dismissed)
	require.JSONEq(t, `{"dismissed":true}`, string(s.LastBody(mockapi.RouteInsightPatch)))

	res, err := c.List(context.Background(), insights.Options{})
	require.NoError(t, err)
	require.Len(t, res.Value.Insights, 2)

	require.NoError(t, c.SubmitFeedback(context.Background(), "ins-2", insights.Feedback{Helpful: true, Comment: "spot on"}))
	require.Equal(t, []insights.Feedback{{Helpful: true, Comment: "spot on"}}, s.Feedback("ins-2"))

	_, err = c.Dismiss(context.Background(), "missing")
	require.Error(t, err)
}

func TestEnvelopeFailureIsGenericError(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteInsightFeedback, http.StatusOK, `{"success":false,"message":"feedback closed"}`, 1)

	err := c.SubmitFeedback(context.Background(), "ins-1", insights.Feedback{})
	var apiErr *httpapi.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, httpapi.KindGeneric, apiErr.Kind)
	require.Equal(t, http.StatusOK, apiErr.Status)
	require.Equal(t, "feedback closed", apiErr.Message)
}
