package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/mockapi"
)

// NewMockServerCmd serves the in-memory backend for manual testing.
func NewMockServerCmd() *cobra.Command {
	var (
		addr      string
		token     string
		fail422   bool
		flaky     int
		withStats bool
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory backend with scripted failure modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []mockapi.Option
			if token != "" {
				opts = append(opts, mockapi.WithToken(token))
			}
			if fail422 {
				opts = append(opts, mockapi.WithInsufficientInsights())
			}
			s := mockapi.New(opts...)
			if flaky > 0 {
				for _, route := range s.Routes() {
					s.DropNext(route, flaky)
				}
			}

			ctx := cmdContext(cmd)
			if err := serveMock(ctx, addr, s); err != nil {
				return cmdErr(err)
			}
			if withStats {
				hits := map[string]int{}
				for _, route := range s.Routes() {
					if n := s.Hits(route); n > 0 {
						hits[route] = n
					}
				}
				slog.InfoContext(ctx, "mock server stopped", "hits", hits)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8787", "Listen address")
	cmd.Flags().StringVar(&token, "token", "", "Require this bearer token (default: accept any request)")
	cmd.Flags().BoolVar(&fail422, "fail-insights-422", false, "Answer the insights listing with 422 (insufficient data)")
	cmd.Flags().IntVar(&flaky, "flaky", 0, "Drop the connection on the first N requests of every route")
	cmd.Flags().BoolVar(&withStats, "stats", true, "Log per-route hit counts on shutdown")
	return cmd
}

func serveMock(ctx context.Context, addr string, s *mockapi.Server) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.InfoContext(ctx, "mock server listening", "addr", addr, "routes", len(s.Routes()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
