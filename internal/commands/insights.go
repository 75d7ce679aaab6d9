package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/clients/insights"
	"github.com/dotcommander/dreamboard/internal/output"
)

func NewInsightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Read and manage generated insights",
	}
	cmd.AddCommand(newInsightsListCmd("list", "List insights (welcome content for new users)", false))
	cmd.AddCommand(newInsightsListCmd("refresh", "List insights, bypassing the server cache", true))
	cmd.AddCommand(newInsightsGetCmd())
	cmd.AddCommand(newInsightsDismissCmd())
	cmd.AddCommand(newInsightsFeedbackCmd())
	return cmd
}

func newInsightsListCmd(use, short string, refresh bool) *cobra.Command {
	var (
		types      []string
		categories []string
		timeRange  string
		force      bool
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := insights.Options{
				Types:         types,
				Categories:    categories,
				TimeRange:     timeRange,
				MinConfidence: optFloat(cmd, "min-confidence"),
				MaxResults:    optInt(cmd, "max-results"),
				ForceRefresh:  force,
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				c := insights.New(e.api)
				list := c.List
				if refresh {
					list = c.Refresh
				}
				res, err := list(ctx, opts)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
	cmd.Flags().StringSliceVar(&types, "type", nil, "Insight types to include (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Categories to include (repeatable)")
	cmd.Flags().StringVar(&timeRange, "time-range", "", "Time range, e.g. 7d or 30d")
	cmd.Flags().Float64("min-confidence", 0, "Minimum confidence in [0,1]")
	cmd.Flags().Int("max-results", 0, "Maximum number of insights")
	if !refresh {
		cmd.Flags().BoolVar(&force, "force-refresh", false, "Bypass the server cache")
	}
	return cmd
}

func newInsightsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <insight-id>",
		Short: "Show one insight",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "insight id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				res, err := insights.New(e.api).Get(ctx, id)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
}

func newInsightsDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <insight-id>",
		Short: "Hide an insight",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "insight id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				in, err := insights.New(e.api).Dismiss(ctx, id)
				if err != nil {
					return err
				}
				return output.PrintSuccess(in)
			})
		},
	}
}

func newInsightsFeedbackCmd() *cobra.Command {
	var fb insights.Feedback
	cmd := &cobra.Command{
		Use:   "feedback <insight-id>",
		Short: "Rate an insight",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "insight id")
			if err != nil {
				return cmdErr(err)
			}
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				if err := insights.New(e.api).SubmitFeedback(ctx, id, fb); err != nil {
					return err
				}
				type resp struct {
					InsightID string `json:"insight_id"`
					Helpful   bool   `json:"helpful"`
				}
				return output.PrintSuccess(resp{InsightID: id, Helpful: fb.Helpful})
			})
		},
	}
	cmd.Flags().BoolVar(&fb.Helpful, "helpful", false, "Mark the insight as helpful")
	cmd.Flags().StringVar(&fb.Comment, "comment", "", "Optional comment")
	return cmd
}
