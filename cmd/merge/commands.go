package merge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// NewMergeCommand creates the merge command and its plan subcommand
func NewMergeCommand(factory Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge DESTINATION SOURCE",
		Short: "Merge one channel into another without duplicates",
		Long: `Copy every block of SOURCE that DESTINATION does not already hold into DESTINATION.
Blocks are equal when title and content match exactly.
Channels can be given as slug, numeric id or are.na URL.

"plan" is a subcommand, so a destination channel with that slug must follow "--":
  arena merge -- plan SOURCE`,
		Example: `  arena merge reading-list old-reading-list
  arena merge reading-list https://www.are.na/someone/old-reading-list --delete-source
  arena merge reading-list old-reading-list --dry-run --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination, source := args[0], args[1]

			deleteSource, _ := cmd.Flags().GetBool("delete-source")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			format, _ := cmd.Flags().GetString("format")

			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			deps, err := factory.Create(ctx)
			if err != nil {
				return err
			}
			defer deps.Cleanup()

			if dryRun {
				plan, err := deps.Merge.PlanMerge(ctx, destination, source)
				if err != nil {
					return fmt.Errorf("failed to plan merge: %w", err)
				}
				output, err := formatter.FormatPlan(plan)
				if err != nil {
					return err
				}
				cmd.Print(output)
				return nil
			}

			outcome, err := deps.Merge.MergeChannels(ctx, destination, source, deleteSource)
			if err != nil {
				return fmt.Errorf("failed to merge channels: %w", err)
			}

			var run *model.MergeRun
			if deps.History != nil {
				run, err = deps.History.Record(ctx, outcome)
				if err != nil {
					cmd.PrintErrf("Warning: failed to record merge history: %v\n", err)
					run = nil
				}
			}

			output, err := formatter.FormatOutcome(outcome, run)
			if err != nil {
				return err
			}
			cmd.Print(output)

			return outcome.Err()
		},
	}

	cmd.Flags().Bool("delete-source", false, "Delete the source channel when every block was copied")
	cmd.Flags().Bool("dry-run", false, "Show the blocks that would be copied without writing anything")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	cmd.AddCommand(NewPlanCommand(factory))

	return cmd
}

// NewPlanCommand creates the merge plan command
func NewPlanCommand(factory Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan DESTINATION SOURCE",
		Short: "Show the blocks a merge would copy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			deps, err := factory.Create(ctx)
			if err != nil {
				return err
			}
			defer deps.Cleanup()

			plan, err := deps.Merge.PlanMerge(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to plan merge: %w", err)
			}

			output, err := formatter.FormatPlan(plan)
			if err != nil {
				return err
			}
			cmd.Print(output)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}
