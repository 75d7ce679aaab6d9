package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/clients/milestones"
	"github.com/dotcommander/dreamboard/internal/output"
)

func NewMilestonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Read and edit milestone events",
	}
	cmd.AddCommand(newMilestonesLookupCmd())
	cmd.AddCommand(newMilestonesCreateCmd())
	cmd.AddCommand(newMilestonesUpdateCmd())
	cmd.AddCommand(newMilestonesDeleteCmd())
	return cmd
}

func newMilestonesLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <milestone-id>...",
		Short: "List events for one milestone, or a map for several",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmdErr(errors.New("at least one milestone id is required"))
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := milestones.New(e.api).Lookup(ctx, args...)
				if err != nil {
					return err
				}
				var data any = res.Value.Events
				if res.Value.Batched {
					data = res.Value.ByMilestone
				}
				return output.PrintResult(data, res.Degraded)
			})
		},
	}
}

func newMilestonesCreateCmd() *cobra.Command {
	var ev milestones.NewEvent
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a milestone event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ev.MilestoneID == "" || ev.Title == "" {
				return cmdErr(errors.New("--milestone and --title are required"))
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				created, err := milestones.New(e.api).Create(ctx, ev)
				if err != nil {
					return err
				}
				return output.PrintSuccess(created)
			})
		},
	}
	cmd.Flags().StringVar(&ev.MilestoneID, "milestone", "", "Milestone id")
	cmd.Flags().StringVar(&ev.Kind, "kind", "note", "Event kind")
	cmd.Flags().StringVar(&ev.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&ev.Description, "description", "", "Event description")
	return cmd
}

func newMilestonesUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Update a milestone event",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "event id")
			if err != nil {
				return cmdErr(err)
			}
			upd := milestones.EventUpdate{
				Kind:        optString(cmd, "kind"),
				Title:       optString(cmd, "title"),
				Description: optString(cmd, "description"),
			}
			if upd.Kind == nil && upd.Title == nil && upd.Description == nil {
				return cmdErr(errors.New("nothing to update: set --kind, --title or --description"))
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				updated, err := milestones.New(e.api).Update(ctx, id, upd)
				if err != nil {
					return err
				}
				return output.PrintSuccess(updated)
			})
		},
	}
	cmd.Flags().String("kind", "", "New kind")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	return cmd
}

func newMilestonesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete a milestone event",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "event id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := milestones.New(e.api).Delete(ctx, id)
				if err != nil {
					return err
				}
				return output.PrintSuccess(res)
			})
		},
	}
}
