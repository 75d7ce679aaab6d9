package visionboard_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/dreamboard/internal/clients/visionboard"
	"github.com/dotcommander/dreamboard/internal/credential"
	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/mockapi"
	"github.com/dotcommander/dreamboard/internal/mockapi/mockapitest"
)

func setup(t *testing.T) (*mockapi.Server, *visionboard.Client) {
	t.Helper()
	s, srv := mockapitest.Start(t)
	return s, visionboard.New(mockapitest.NewClient(t, srv.URL, nil), nil)
}

func TestItems_RepeatsTagParameter(t *testing.T) {
	_, c := setup(t)

	res, err := c.Items(context.Background(), visionboard.ItemFilter{Tags: []string{"health", "travel"}})
	require.NoError(t, err)
	require.Len(t, res.Value, 2)

	res, err = c.Items(context.Background(), visionboard.ItemFilter{Tags: []string{"learning"}, Status: "active"})
	require.NoError(t, err)
	require.Len(t, res.Value, 1)
	require.Equal(t, "vb-2", res.Value[0].ID)
}

func TestItems_DegradesToEmptyList(t *testing.T) {
	s, c := setup(t)
	s.DropNext(mockapi.RouteVisionItems, 3)

	res, err := c.Items(context.Background(), visionboard.ItemFilter{})
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.ErrorIs(t, res.Cause, httpapi.ErrTransport)
	require.NotNil(t, res.Value)
	require.Empty(t, res.Value)
}

func TestItemLifecycleRecordsHistory(t *testing.T) {
	_, c := setup(t)

	it, err := c.CreateItem(context.Background(), visionboard.NewItem{Title: "Write a novel", Tags: []string{"creative"}})
	require.NoError(t, err)
	require.Equal(t, "active", it.Status)

	status := "achieved"
	it, err = c.UpdateItem(context.Background(), it.ID, visionboard.ItemUpdate{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "achieved", it.Status)

	del, err := c.DeleteItem(context.Background(), it.ID)
	require.NoError(t, err)
	require.True(t, del.Success)

	limit := 3
	page, err := c.History(context.Background(), visionboard.Page{Limit: &limit})
	require.NoError(t, err)
	require.Equal(t, 6, page.Value.Total)
	require.Len(t, page.Value.Entries, 3)
	require.Equal(t, "deleted", page.Value.Entries[0].Action)
	require.Equal(t, "updated", page.Value.Entries[1].Action)
}

func TestCreateItem_FailureSurfaces(t *testing.T) {
	s, c := setup(t)
	s.ReplyNext(mockapi.RouteVisionCreate, http.StatusTooManyRequests, ``, 1)

	_, err := c.CreateItem(context.Background(), visionboard.NewItem{Title: "x"})
	require.ErrorIs(t, err, httpapi.ErrRateLimited)
}

func TestNew_FallsBackToCookieCredential(t *testing.T) {
	s, srv := mockapitest.Start(t)

	jar := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(jar, []byte("theme=dark; sb-access-token="+mockapitest.TestToken+"\n"), 0o600))

	base := mockapitest.NewClient(t, srv.URL, credential.NewResolver())
	resolver := credential.NewResolver().With(credential.FromCookies(credential.CookieFile(jar)))
	c := visionboard.New(base, resolver)

	res, err := c.Items(context.Background(), visionboard.ItemFilter{})
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Len(t, res.Value, 3)

	_, err = visionboard.New(base, nil).Items(context.Background(), visionboard.ItemFilter{})
	require.ErrorIs(t, err, httpapi.ErrNotAuthenticated)
	require.Equal(t, 1, s.Hits(mockapi.RouteVisionItems))
}
