package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/app"
	"github.com/dotcommander/dreamboard/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd(version).ExecuteContext(ctx)
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "dreamboard",
		Short:         "Resilient client for the dreamboard growth API",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.LoadDotEnv()
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			flags := cmd.Flags()
			dbPath, _ := flags.GetString("db-path")
			apiURL, _ := flags.GetString("api-url")
			token, _ := flags.GetString("token")
			app.SetDBPathOverride(dbPath)
			app.SetAPIURLOverride(apiURL)
			app.SetTokenOverride(token)

			format, _ := flags.GetString("log-format")
			level, _ := flags.GetString("log-level")
			app.SetupLogger(app.LogOptions(format, level))
			return nil
		},
	}

	root.PersistentFlags().String("db-path", "", "Override primary credential database path")
	root.PersistentFlags().String("api-url", "", "Backend base URL (default: $DREAMBOARD_API_URL)")
	root.PersistentFlags().String("token", "", "Active session access token (default: $DREAMBOARD_ACCESS_TOKEN)")
	root.PersistentFlags().Var(newEnumFlag("json", "text", "auto"), "log-format", "Log format: json, text or auto (default: $DREAMBOARD_LOG_FORMAT)")
	root.PersistentFlags().Var(newEnumFlag("debug", "info", "warn", "error"), "log-level", "Log level: debug, info, warn, error (default: $DREAMBOARD_LOG_LEVEL)")
	root.Flags().BoolP("version", "v", false, "version for dreamboard")

	root.AddCommand(NewInsightsCmd())
	root.AddCommand(NewProgressCmd())
	root.AddCommand(NewWeatherCmd())
	root.AddCommand(NewMilestonesCmd())
	root.AddCommand(NewVisionCmd())
	root.AddCommand(NewAuthCmd())
	root.AddCommand(NewPollCmd())
	root.AddCommand(NewMockServerCmd())
	root.AddCommand(NewDoctorCmd())

	return root
}
