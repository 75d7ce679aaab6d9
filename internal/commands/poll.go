package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/clients/insights"
	"github.com/dotcommander/dreamboard/internal/clients/weather"
	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/metrics"
	"github.com/dotcommander/dreamboard/internal/output"
)

type pollOptions struct {
	dreamID     string
	interval    time.Duration
	count       int
	maxFails    int
	metricsAddr string
}

// NewPollCmd refreshes the dashboard panels on an interval.
func NewPollCmd() *cobra.Command {
	var (
		opts     pollOptions
		interval string
	)

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Refresh insights and dream weather periodically",
		Long: `Poll refreshes the insights panel and the weather of one dream on a fixed
interval, printing one JSON line per cycle.

Safety rails:
  --count         Stop after N cycles (default: 0, run until interrupted)
  --max-fails     Stop after N consecutive failed cycles (default: 3)
  --metrics-addr  Serve Prometheus metrics at /metrics while polling`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dreamID == "" {
				return cmdErr(errors.New("--dream is required"))
			}
			d, err := time.ParseDuration(interval)
			if err != nil || d <= 0 {
				return cmdErr(fmt.Errorf("invalid --interval %q", interval))
			}
			opts.interval = d
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				return runPoll(ctx, e.api, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.dreamID, "dream", "", "Dream whose weather to refresh")
	cmd.Flags().StringVar(&interval, "interval", "5m", "Time between cycles")
	cmd.Flags().IntVar(&opts.count, "count", 0, "Stop after N cycles (0 = unlimited)")
	cmd.Flags().IntVar(&opts.maxFails, "max-fails", 3, "Circuit breaker: consecutive failed cycles before stopping")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics on this address, e.g. :9090")
	return cmd
}

type pollCycle struct {
	Cycle            int    `json:"cycle"`
	Insights         int    `json:"insights"`
	InsightsDegraded bool   `json:"insights_degraded"`
	Weather          string `json:"weather,omitempty"`
	WeatherDegraded  bool   `json:"weather_degraded"`
	Error            string `json:"error,omitempty"`
}

func runPoll(ctx context.Context, api *httpapi.Client, opts pollOptions) error {
	if opts.metricsAddr != "" {
		stop := serveMetrics(ctx, opts.metricsAddr)
		defer stop()
	}

	ins := insights.New(api)
	wx := weather.New(api)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	fails := 0
	for cycle := 1; ; cycle++ {
		res, err := pollOnce(ctx, ins, wx, opts.dreamID)
		res.Cycle = cycle
		if err != nil {
			fails++
			res.Error = err.Error()
			slog.WarnContext(ctx, "poll cycle failed", "cycle", cycle, "consecutive_failures", fails, "error", err.Error())
		} else {
			fails = 0
			slog.InfoContext(ctx, "poll cycle complete",
				"cycle", cycle,
				"insights", res.Insights,
				"insights_degraded", res.InsightsDegraded,
				"weather", res.Weather,
				"weather_degraded", res.WeatherDegraded,
			)
		}
		if perr := output.PrintResult(res, res.InsightsDegraded || res.WeatherDegraded); perr != nil {
			return perr
		}

		if errors.Is(err, httpapi.ErrNotAuthenticated) {
			return err
		}
		if opts.maxFails > 0 && fails >= opts.maxFails {
			return fmt.Errorf("stopping after %d consecutive failed cycles: %w", fails, err)
		}
		if opts.count > 0 && cycle >= opts.count {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func pollOnce(ctx context.Context, ins *insights.Client, wx *weather.Client, dreamID string) (pollCycle, error) {
	var out pollCycle

	page, err := ins.List(ctx, insights.Options{})
	if err != nil {
		return out, err
	}
	out.Insights = len(page.Value.Insights)
	out.InsightsDegraded = page.Degraded

	st, err := wx.Get(ctx, dreamID)
	if err != nil {
		return out, err
	}
	out.WeatherDegraded = st.Degraded
	if st.Value != nil {
		out.Weather = st.Value.Condition
	}
	return out, nil
}

// serveMetrics exposes /metrics until the returned stop func is called.
func serveMetrics(ctx context.Context, addr string) func() {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "metrics server failed", "addr", addr, "error", err.Error())
		}
	}()
	slog.InfoContext(ctx, "serving metrics", "addr", addr)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
