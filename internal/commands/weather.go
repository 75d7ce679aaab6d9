package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/clients/weather"
	"github.com/dotcommander/dreamboard/internal/output"
)

func NewWeatherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Read the derived weather of a dream",
	}

	get := &cobra.Command{
		Use:   "get <dream-id>",
		Short: "Show the current weather (may be served from the server cache)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := weather.New(e.api).Get(ctx, dreamID)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh <dream-id>",
		Short: "Recompute the weather",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				st, err := weather.New(e.api).Refresh(ctx, dreamID)
				if err != nil {
					return err
				}
				return output.PrintSuccess(st)
			})
		},
	}

	history := &cobra.Command{
		Use:   "history <dream-id>",
		Short: "List past weather computations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			limit := optInt(cmd, "limit")
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := weather.New(e.api).History(ctx, dreamID, limit)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
	history.Flags().Int("limit", 0, "Maximum entries")

	cmd.AddCommand(get, refresh, history)
	return cmd
}
