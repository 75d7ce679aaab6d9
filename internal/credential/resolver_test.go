package credential

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/dreamboard/internal/store"
)

type mapStore map[string]string

func (m mapStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk unplugged")
}

func newTestResolver(session string, primary, secondary KeyValueStore, cookies string) *Resolver {
	return NewResolver(
		FromSession(StaticSession(func() string { return session })),
		FromStore("primary", primary, StorageKey),
		FromStore("secondary", secondary, StorageKey),
		FromCookies(CookieHeader(cookies)),
	)
}

func TestResolve_HighestPrioritySourceWins(t *testing.T) {
	primary := mapStore{StorageKey: `{"session":{"access_token":"primary-tok"}}`}
	secondary := mapStore{StorageKey: `{"access_token":"secondary-tok"}`}
	cookies := "theme=dark; sb-access-token=cookie-tok"

	tests := []struct {
		name      string
		session   string
		primary   KeyValueStore
		secondary KeyValueStore
		cookies   string
		token     string
		source    string
	}{
		{"session", "session-tok", primary, secondary, cookies, "session-tok", "session"},
		{"primary", "", primary, secondary, cookies, "primary-tok", "primary"},
		{"secondary", "", mapStore{}, secondary, cookies, "secondary-tok", "secondary"},
		{"cookie", "", mapStore{}, mapStore{}, cookies, "cookie-tok", "cookie"},
		{"primary without token falls through", "", mapStore{StorageKey: `{"user":"u"}`}, secondary, "", "secondary-tok", "secondary"},
		{"broken primary falls through", "", brokenStore{}, secondary, "", "secondary-tok", "secondary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := newTestResolver(tt.session, tt.primary, tt.secondary, tt.cookies).Resolve(context.Background())
			require.True(t, ok)
			require.Equal(t, tt.token, c.Token)
			require.Equal(t, tt.source, c.Source)
		})
	}
}

func TestResolve_AbsentWhenNoSourceHasToken(t *testing.T) {
	r := newTestResolver("", mapStore{}, mapStore{}, "theme=dark")
	_, ok := r.Resolve(context.Background())
	require.False(t, ok)

	tok, ok := r.Token(context.Background())
	require.False(t, ok)
	require.Empty(t, tok)
}

func TestResolve_MalformedJSONReturnsRawValue(t *testing.T) {
	r := newTestResolver("", mapStore{StorageKey: `{"session": {"access_token"`}, mapStore{}, "")
	c, ok := r.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, `{"session": {"access_token"`, c.Token)
	require.Equal(t, ShapeRaw, c.Shape)
}

func TestResolve_RereadsSourcesEveryCall(t *testing.T) {
	primary := mapStore{StorageKey: "old-token"}
	r := newTestResolver("", primary, mapStore{}, "")

	c, ok := r.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, "old-token", c.Token)

	primary[StorageKey] = `{"access_token":"new-token"}`
	c, ok = r.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, "new-token", c.Token)
}

func TestResolve_SessionProviderError(t *testing.T) {
	failing := SessionFunc(func(context.Context) (*Session, error) { return nil, errors.New("provider offline") })
	r := NewResolver(FromSession(failing), FromStore("primary", mapStore{StorageKey: "p"}, StorageKey))
	c, ok := r.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, "primary", c.Source)
}

func TestResolver_WithAppendsLowerPrioritySources(t *testing.T) {
	base := NewResolver(FromStore("primary", mapStore{}, StorageKey))
	_, ok := base.Resolve(context.Background())
	require.False(t, ok)

	extended := base.With(FromCookies(CookieHeader("sb-auth-token.0=%7B%22access_token%22%3A%22c%22%7D")))
	c, ok := extended.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, "c", c.Token)

	_, ok = base.Resolve(context.Background())
	require.False(t, ok)
}

func TestResolve_WithSQLitePrimaryStore(t *testing.T) {
	db, err := store.InitDBWithPath(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	defer db.Close()

	creds := store.NewCredentialStore(db)
	require.NoError(t, creds.Put(context.Background(), StorageKey, `{"session":{"access_token":"from-sqlite"}}`))

	r := NewResolver(FromStore("primary", creds, StorageKey))
	c, ok := r.Resolve(context.Background())
	require.True(t, ok)
	require.Equal(t, "from-sqlite", c.Token)
	require.Equal(t, ShapeNested, c.Shape)
}
