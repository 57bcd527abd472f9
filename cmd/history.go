package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded merges",
	Long:  `Show merges recorded in the history database (requires database_url).`,
}

// historyListCmd lists merge runs
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List merge runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		channelRef, _ := cmd.Flags().GetString("channel")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		asJSON, _ := cmd.Flags().GetBool("json")

		service, cleanup, err := newHistoryService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		channelID, err := service.ResolveChannel(cmd.Context(), channelRef)
		if err != nil {
			return err
		}

		runs, err := service.ListRuns(cmd.Context(), channelID, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list merge runs: %w", err)
		}

		if asJSON {
			return printJSON(cmd, runs)
		}
		if len(runs) == 0 {
			cmd.Println("No merge runs recorded")
			return nil
		}
		ids := make([]int64, 0, 2*len(runs))
		for _, run := range runs {
			ids = append(ids, run.DestinationID, run.SourceID)
		}
		writeRuns(cmd.OutOrStdout(), runs, service.ChannelLabels(cmd.Context(), ids...))
		return nil
	},
}

// historyShowCmd shows one merge run with its items
var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show a merge run and the result of every planned copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		service, cleanup, err := newHistoryService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		run, items, err := service.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get merge run: %w", err)
		}

		if asJSON {
			return printJSON(cmd, struct {
				Run   *model.MergeRun       `json:"run"`
				Items []*model.MergeRunItem `json:"items"`
			}{run, items})
		}
		labels := service.ChannelLabels(cmd.Context(), run.DestinationID, run.SourceID)
		writeRunDetail(cmd.OutOrStdout(), run, items, labels)
		return nil
	},
}

// historyChannelsCmd lists channels seen by recorded merges
var historyChannelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List channels that took part in recorded merges",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		asJSON, _ := cmd.Flags().GetBool("json")

		service, cleanup, err := newHistoryService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		channels, err := service.ListChannels(cmd.Context(), limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list channels: %w", err)
		}

		if asJSON {
			return printJSON(cmd, channels)
		}
		if len(channels) == 0 {
			cmd.Println("No channels recorded")
			return nil
		}
		writeChannels(cmd.OutOrStdout(), channels)
		return nil
	},
}

// channelLabel prefers the recorded slug and falls back to the numeric id
func channelLabel(labels map[int64]string, id int64) string {
	if label, ok := labels[id]; ok && label != "" {
		return label
	}
	return strconv.FormatInt(id, 10)
}

func writeRuns(w io.Writer, runs []*model.MergeRun, labels map[int64]string) {
	fmt.Fprintf(w, "%-36s  %-20s  %-24s  %-24s  %7s  %6s  %s\n",
		"RUN", "CREATED", "DESTINATION", "SOURCE", "COPIED", "FAILED", "SOURCE DELETED")
	for _, run := range runs {
		failed := fmt.Sprintf("%6d", run.Failed)
		if run.Failed > 0 {
			failed = color.RedString(failed)
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-24s  %-24s  %7d  %s  %t\n",
			run.ID, run.CreatedAt.Local().Format(time.DateTime),
			channelLabel(labels, run.DestinationID), channelLabel(labels, run.SourceID),
			run.Succeeded, failed, run.SourceDeleted)
	}
}

func writeRunDetail(w io.Writer, run *model.MergeRun, items []*model.MergeRunItem, labels map[int64]string) {
	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Created At: %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Destination: %s (id %d)\n", channelLabel(labels, run.DestinationID), run.DestinationID)
	fmt.Fprintf(w, "Source: %s (id %d)\n", channelLabel(labels, run.SourceID), run.SourceID)
	fmt.Fprintf(w, "Copied: %d of %d\n", run.Succeeded, run.Planned)
	fmt.Fprintf(w, "Delete requested: %t, source deleted: %t\n", run.DeleteRequested, run.SourceDeleted)

	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Items:")
	fmt.Fprintln(w, strings.Repeat("=", 6))
	for _, item := range items {
		label := item.Title
		if label == "" {
			label = item.Content
		}
		if item.Succeeded {
			fmt.Fprintf(w, "%s [%d] %s\n", color.GreenString("✓"), item.Position+1, label)
			continue
		}
		fmt.Fprintf(w, "%s [%d] %s: %s\n", color.RedString("✗"), item.Position+1, label, item.Error)
	}
}

func writeChannels(w io.Writer, channels []*model.Channel) {
	fmt.Fprintf(w, "%12s  %-32s  %s\n", "ID", "SLUG", "TITLE")
	for _, c := range channels {
		fmt.Fprintf(w, "%12d  %-32s  %s\n", c.ID, c.Slug, c.Title)
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyChannelsCmd)

	historyListCmd.Flags().String("channel", "", "Only runs where this channel (id or slug) was destination or source")
	historyListCmd.Flags().Int("limit", 20, "Maximum number of runs")
	historyListCmd.Flags().Int("offset", 0, "Number of runs to skip")
	historyListCmd.Flags().Bool("json", false, "Output JSON")
	historyShowCmd.Flags().Bool("json", false, "Output JSON")
	historyChannelsCmd.Flags().Int("limit", 20, "Maximum number of channels")
	historyChannelsCmd.Flags().Int("offset", 0, "Number of channels to skip")
	historyChannelsCmd.Flags().Bool("json", false, "Output JSON")
}
