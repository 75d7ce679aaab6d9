package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/clients/progress"
	"github.com/dotcommander/dreamboard/internal/output"
)

func NewProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track dream progress",
	}
	cmd.AddCommand(newProgressListCmd())
	cmd.AddCommand(newProgressLatestCmd())
	cmd.AddCommand(newProgressRecordCmd())
	cmd.AddCommand(newProgressAdjustCmd())
	cmd.AddCommand(newProgressDeleteCmd())
	return cmd
}

func newProgressListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <dream-id>",
		Short: "List a dream's progress timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			from, err := optTime(cmd, "from")
			if err != nil {
				return cmdErr(err)
			}
			to, err := optTime(cmd, "to")
			if err != nil {
				return cmdErr(err)
			}
			opts := progress.ListOptions{
				Limit:  optInt(cmd, "limit"),
				Offset: optInt(cmd, "offset"),
				From:   from,
				To:     to,
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := progress.New(e.api).List(ctx, dreamID, opts)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
	cmd.Flags().Int("limit", 0, "Page size")
	cmd.Flags().Int("offset", 0, "Entries to skip")
	cmd.Flags().String("from", "", "Earliest timestamp (RFC 3339)")
	cmd.Flags().String("to", "", "Latest timestamp (RFC 3339)")
	return cmd
}

func newProgressLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <dream-id>",
		Short: "Show the most recent progress entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := progress.New(e.api).Latest(ctx, dreamID)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
}

func newProgressRecordCmd() *cobra.Command {
	var req progress.RecordRequest
	cmd := &cobra.Command{
		Use:   "record <dream-id>",
		Short: "Record an absolute progress value",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			if !cmd.Flags().Changed("value") {
				return cmdErr(errors.New("--value is required"))
			}
			req.DreamID = dreamID
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				entry, err := progress.New(e.api).Record(ctx, req)
				if err != nil {
					return err
				}
				return output.PrintSuccess(entry)
			})
		},
	}
	cmd.Flags().Float64Var(&req.Progress, "value", 0, "Progress in [0,1]")
	cmd.Flags().StringVar(&req.Note, "note", "", "Optional note")
	return cmd
}

func newProgressAdjustCmd() *cobra.Command {
	var req progress.AdjustRequest
	cmd := &cobra.Command{
		Use:   "adjust <dream-id>",
		Short: "Apply a delta to the current progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamID, err := requireID(args, "dream id")
			if err != nil {
				return cmdErr(err)
			}
			if !cmd.Flags().Changed("by") {
				return cmdErr(errors.New("--by is required"))
			}
			req.DreamID = dreamID
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := progress.New(e.api).Adjust(ctx, req)
				if err != nil {
					return err
				}
				return output.PrintSuccess(res)
			})
		},
	}
	cmd.Flags().Float64Var(&req.Adjustment, "by", 0, "Delta to apply, e.g. 0.1 or -0.05")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Optional reason")
	return cmd
}

func newProgressDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a progress entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "entry id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := progress.New(e.api).Delete(ctx, id)
				if err != nil {
					return err
				}
				return output.PrintSuccess(res)
			})
		},
	}
}
