package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/clients/visionboard"
	"github.com/dotcommander/dreamboard/internal/output"
)

func NewVisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vision",
		Short: "Manage vision board items",
	}
	cmd.AddCommand(newVisionItemsCmd())
	cmd.AddCommand(newVisionHistoryCmd())
	cmd.AddCommand(newVisionCreateCmd())
	cmd.AddCommand(newVisionUpdateCmd())
	cmd.AddCommand(newVisionDeleteCmd())
	return cmd
}

// withVision runs fn with a vision board client whose credential chain also
// consults the cookie jar.
func withVision(cmd *cobra.Command, fn func(ctx context.Context, c *visionboard.Client) error) error {
	return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
		tokens, err := e.cookieResolver()
		if err != nil {
			return err
		}
		return fn(ctx, visionboard.New(e.api, tokens))
	})
}

func newVisionItemsCmd() *cobra.Command {
	var f visionboard.ItemFilter
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List vision board items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVision(cmd, func(ctx context.Context, c *visionboard.Client) error {
				res, err := c.Items(ctx, f)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
	cmd.Flags().StringArrayVar(&f.Tags, "tag", nil, "Only items with this tag (repeatable)")
	cmd.Flags().StringVar(&f.Status, "status", "", "Only items with this status")
	return cmd
}

func newVisionHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List vision board changes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := visionboard.Page{Limit: optInt(cmd, "limit"), Offset: optInt(cmd, "offset")}
			return withVision(cmd, func(ctx context.Context, c *visionboard.Client) error {
				res, err := c.History(ctx, p)
				if err != nil {
					return err
				}
				return output.PrintResult(res.Value, res.Degraded)
			})
		},
	}
	cmd.Flags().Int("limit", 0, "Page size")
	cmd.Flags().Int("offset", 0, "Entries to skip")
	return cmd
}

func newVisionCreateCmd() *cobra.Command {
	var item visionboard.NewItem
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Pin a new item to the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if item.Title == "" {
				return cmdErr(errors.New("--title is required"))
			}
			return withVision(cmd, func(ctx context.Context, c *visionboard.Client) error {
				created, err := c.CreateItem(ctx, item)
				if err != nil {
					return err
				}
				return output.PrintSuccess(created)
			})
		},
	}
	cmd.Flags().StringVar(&item.Title, "title", "", "Item title")
	cmd.Flags().StringVar(&item.Description, "description", "", "Item description")
	cmd.Flags().StringVar(&item.ImageURL, "image-url", "", "Image URL")
	cmd.Flags().StringArrayVar(&item.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&item.Status, "status", "", "Initial status (default active)")
	return cmd
}

func newVisionUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update a board item",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "item id")
			if err != nil {
				return cmdErr(err)
			}
			upd := visionboard.ItemUpdate{
				Title:       optString(cmd, "title"),
				Description: optString(cmd, "description"),
				ImageURL:    optString(cmd, "image-url"),
				Status:      optString(cmd, "status"),
				Position:    optInt(cmd, "position"),
			}
			if cmd.Flags().Changed("tag") {
				upd.Tags, _ = cmd.Flags().GetStringArray("tag")
			}
			return withVision(cmd, func(ctx context.Context, c *visionboard.Client) error {
				updated, err := c.UpdateItem(ctx, id, upd)
				if err != nil {
					return err
				}
				return output.PrintSuccess(updated)
			})
		},
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("image-url", "", "New image URL")
	cmd.Flags().String("status", "", "New status")
	cmd.Flags().Int("position", 0, "New board position")
	cmd.Flags().StringArray("tag", nil, "Replacement tags (repeatable)")
	return cmd
}

func newVisionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Remove an item from the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireID(args, "item id")
			if err != nil {
				return cmdErr(err)
			}
			return withVision(cmd, func(ctx context.Context, c *visionboard.Client) error {
				res, err := c.DeleteItem(ctx, id)
				if err != nil {
					return err
				}
				return output.PrintSuccess(res)
			})
		},
	}
}
