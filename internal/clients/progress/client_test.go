package progress_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/dreamboard/internal/clients/progress"
	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/mockapi"
	"github.com/dotcommander/dreamboard/internal/mockapi/mockapitest"
)

func setup(t *testing.T) (*mockapi.Server, *progress.Client) {
	t.Helper()
	s, srv := mockapitest.Start(t)
	return s, progress.New(mockapitest.NewClient(t, srv.URL, nil))
}

func intp(v int) *int { return &v }

func TestAdjust_SendsExactBodyAndRelaysServerValue(t *testing.T) {
	s, c := setup(t)

	res, err := c.Adjust(context.Background(), progress.AdjustRequest{DreamID: "d1", Adjustment: 0.1})
	require.NoError(t, err)
	require.JSONEq(t, `{"dream_id":"d1","adjustment":0.1}`, string(s.LastBody(mockapi.RouteProgressAdjust)))
	require.Equal(t, 0.4, res.PreviousProgress)
	require.Equal(t, 0.5, res.NewProgress)
}

func TestAdjust_DoesNoClientSideArithmetic(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteProgressAdjust, http.StatusOK,
		`{"dream_id":"d1","previous_progress":0.4,"new_progress":0.73,"adjusted_at":"2026-01-08T09:00:00Z"}`, 1)

	res, err := c.Adjust(context.Background(), progress.AdjustRequest{DreamID: "d1", Adjustment: 0.1})
	require.NoError(t, err)
	require.Equal(t, 0.73, res.NewProgress)
}

func TestAdjust_FailureSurfaces(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteProgressAdjust, http.StatusInternalServerError, ``, 1)

	_, err := c.Adjust(context.Background(), progress.AdjustRequest{DreamID: "d1", Adjustment: 0.1})
	require.Error(t, err)

	_, err = c.Adjust(context.Background(), progress.AdjustRequest{Adjustment: 0.1})
	require.Error(t, err)
	require.Equal(t, 1, s.Hits(mockapi.RouteProgressAdjust))
}

func TestList_PaginatesNewestFirst(t *testing.T) {
	_, c := setup(t)

	res, err := c.List(context.Background(), "d1", progress.ListOptions{Limit: intp(2)})
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Equal(t, 3, res.Value.Total)
	require.Len(t, res.Value.Entries, 2)
	require.Equal(t, "p-3", res.Value.Entries[0].ID)

	from := mockapi.SeedTime.Add(36 * time.Hour)
	res, err = c.List(context.Background(), "d1", progress.ListOptions{From: &from})
	require.NoError(t, err)
	require.Equal(t, 1, res.Value.Total)
}

func TestList_DegradesToEmptyPage(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteProgressList, http.StatusBadGateway, ``, 1)

	res, err := c.List(context.Background(), "d1", progress.ListOptions{})
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.NotNil(t, res.Value.Entries)
	require.Empty(t, res.Value.Entries)
}

func TestList_ExpiredSessionIsReturned(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteProgressList, http.StatusUnauthorized, `{"message":"JWT expired"}`, 1)

	_, err := c.List(context.Background(), "d1", progress.ListOptions{})
	require.ErrorIs(t, err, httpapi.ErrAuthExpired)
}

func TestList_CancelledCallIsReturned(t *testing.T) {
	s, c := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.List(ctx, "d1", progress.ListOptions{})
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, httpapi.ErrTransport)
	require.False(t, res.Degraded)
	require.Zero(t, s.Hits(mockapi.RouteProgressList))
}

func TestLatest(t *testing.T) {
	_, c := setup(t)

	res, err := c.Latest(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, 0.4, res.Value.Progress)

	res, err = c.Latest(context.Background(), "d2")
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Nil(t, res.Value)
}

func TestRecordAndDelete(t *testing.T) {
	_, c := setup(t)

	e, err := c.Record(context.Background(), progress.RecordRequest{DreamID: "d2", Progress: 0.15, Note: "first step"})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)

	del, err := c.Delete(context.Background(), e.ID)
	require.NoError(t, err)
	require.True(t, del.Success)

	_, err = c.Delete(context.Background(), e.ID)
	require.Error(t, err)
}

func TestDelete_EmptySuccessBody(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteProgressDelete, http.StatusNoContent, ``, 1)

	del, err := c.Delete(context.Background(), "p-1")
	require.NoError(t, err)
	require.True(t, del.Success)
}
