package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieSource(t *testing.T) {
	tests := []struct {
		name   string
		header string
		ok     bool
		token  string
	}{
		{"legacy name raw", "a=1; sb-access-token=plain-tok", true, "plain-tok"},
		{"prefix url-encoded nested", "sb-auth-token=%7B%22session%22%3A%7B%22access_token%22%3A%22n%22%7D%7D", true, "n"},
		{"chunked prefix", "x=y;sb-auth-token.0=%7B%22access_token%22%3A%22chunk%22%7D", true, "chunk"},
		{"plus is not a space", "sb-access-token=a+b", true, "a+b"},
		{"first match wins", "sb-access-token=first; sb-auth-token=second", true, "first"},
		{"unrelated cookies", "session=abc; sb-other=1", false, ""},
		{"code verifier is not a session", "sb-auth-token-code-verifier=verifier123; sb-auth-token=real-tok", true, "real-tok"},
		{"non-numeric chunk suffix", "sb-auth-token.x=nope; sb-auth-token.1=chunk-tok", true, "chunk-tok"},
		{"tokenless match falls through", "sb-access-token=%7B%22user%22%3A1%7D; sb-auth-token=later", true, "later"},
		{"only verifier", "sb-auth-token-code-verifier=verifier123", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromCookies(CookieHeader(tt.header)).Lookup(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.ok, p.OK())
			require.Equal(t, tt.token, p.Token)
		})
	}
}

func TestCookieFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")

	h, err := CookieFile(path).CookieHeader(context.Background())
	require.NoError(t, err)
	require.Empty(t, h)

	body := "# exported from browser\nCookie: theme=dark\n\nsb-access-token=file-tok\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	p, err := FromCookies(CookieFile(path)).Lookup(context.Background())
	require.NoError(t, err)
	require.Equal(t, "file-tok", p.Token)
}
