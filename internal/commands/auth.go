package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/credential"
	"github.com/dotcommander/dreamboard/internal/output"
	"github.com/dotcommander/dreamboard/internal/store"
)

func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect and manage persisted credentials",
	}
	cmd.AddCommand(newAuthStoreCmd())
	cmd.AddCommand(newAuthResolveCmd())
	cmd.AddCommand(newAuthClearCmd())
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newAuthStoreCmd() *cobra.Command {
	var secondary, stdin bool
	cmd := &cobra.Command{
		Use:   "store [value]",
		Short: "Persist a session (raw token or session JSON) under the shared key",
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			switch {
			case stdin:
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return cmdErr(err)
				}
				value = strings.TrimSpace(string(b))
			case len(args) == 1:
				value = args[0]
			}
			if value == "" {
				return cmdErr(errors.New("a value is required (argument or --stdin)"))
			}
			parsed := credential.ParseToken(value)
			if !parsed.OK() {
				return cmdErr(errors.New("value does not contain an access token"))
			}

			ctx := cmdContext(cmd)
			target, err := putCredential(ctx, secondary, value)
			if err != nil {
				return cmdErr(err)
			}
			type resp struct {
				Store string `json:"store"`
				Key   string `json:"key"`
				Shape string `json:"shape"`
			}
			return output.PrintSuccess(resp{Store: target, Key: credential.StorageKey, Shape: parsed.Shape.String()})
		},
	}
	cmd.Flags().BoolVar(&secondary, "secondary", false, "Write to the secondary store (Redis or session directory)")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read the value from stdin")
	return cmd
}

func putCredential(ctx context.Context, secondary bool, value string) (string, error) {
	if secondary {
		sec, kind, closeSec, err := openSecondary(ctx)
		if err != nil {
			return "", err
		}
		defer closeSec()
		return "secondary:" + kind, sec.Put(ctx, credential.StorageKey, value)
	}
	err := withRawDB(func(db *DB) error {
		return store.NewCredentialStore(db).Put(ctx, credential.StorageKey, value)
	})
	return "primary", err
}

func newAuthResolveCmd() *cobra.Command {
	var showToken, cookies bool
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which source the next request would take its credential from",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			resolver, closers := newResolver(ctx)
			defer func() {
				for _, c := range closers {
					c()
				}
			}()
			if cookies {
				e := &env{resolver: resolver}
				r, err := e.cookieResolver()
				if err != nil {
					return cmdErr(err)
				}
				resolver = r
			}

			type resp struct {
				Authenticated bool   `json:"authenticated"`
				Source        string `json:"source,omitempty"`
				Shape         string `json:"shape,omitempty"`
				Token         string `json:"token,omitempty"`
			}
			c, ok := resolver.Resolve(ctx)
			if !ok {
				return output.PrintSuccess(resp{})
			}
			out := resp{Authenticated: true, Source: c.Source, Shape: c.Shape.String()}
			if showToken {
				out.Token = c.Token
			}
			return output.PrintSuccess(out)
		},
	}
	cmd.Flags().BoolVar(&showToken, "show-token", false, "Include the token in the output")
	cmd.Flags().BoolVar(&cookies, "cookies", false, "Also consult the cookie jar, as the vision board does")
	return cmd
}

func newAuthClearCmd() *cobra.Command {
	var secondary bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			type resp struct {
				Primary   bool  `json:"primary_removed"`
				Secondary *bool `json:"secondary_removed,omitempty"`
			}
			var out resp
			if err := withRawDB(func(db *DB) error {
				removed, err := store.NewCredentialStore(db).Delete(ctx, credential.StorageKey)
				out.Primary = removed
				return err
			}); err != nil {
				return cmdErr(err)
			}
			if secondary {
				sec, _, closeSec, err := openSecondary(ctx)
				if err != nil {
					return cmdErr(err)
				}
				defer closeSec()
				removed, err := sec.Delete(ctx, credential.StorageKey)
				if err != nil {
					return cmdErr(err)
				}
				out.Secondary = &removed
			}
			return output.PrintSuccess(out)
		},
	}
	cmd.Flags().BoolVar(&secondary, "secondary", false, "Also clear the secondary store")
	return cmd
}
