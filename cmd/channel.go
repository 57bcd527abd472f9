package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/service/merge"
)

// channelCmd represents the channel command
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Are.na channel operations",
	Long:  `Inspect, find, create, compare and delete Are.na channels.`,
}

// channelInfoCmd fetches a channel with all of its blocks
var channelInfoCmd = &cobra.Command{
	Use:   "info IDENTIFIER",
	Short: "Fetch a channel and its blocks",
	Long:  `Fetch a channel by slug, numeric id or URL, following every page of its contents.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newArenaClient()
		if err != nil {
			return err
		}

		reader := merge.NewReader(client, cfg.PerPage)
		channel, err := reader.ReadChannel(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch channel: %w", err)
		}

		return printJSON(cmd, channel)
	},
}

// channelSearchCmd finds a channel by exact title
var channelSearchCmd = &cobra.Command{
	Use:   "search TITLE",
	Short: "Find a channel by its exact title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		channel, err := client.SearchChannelByTitle(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to search channel: %w", err)
		}

		return printJSON(cmd, channel.Ref())
	},
}

// channelCreateCmd creates an empty channel
var channelCreateCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create a new channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		channel, err := client.CreateChannel(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create channel: %w", err)
		}

		cmd.Println("Channel created successfully:")
		return printJSON(cmd, channel.Ref())
	},
}

// channelCompareCmd compares the title and description of two channels
var channelCompareCmd = &cobra.Command{
	Use:   "compare FIRST SECOND",
	Short: "Check whether two channels have the same title and description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		channels := make([]*model.Channel, 0, 2)
		for _, identifier := range args {
			channel, err := client.GetChannel(cmd.Context(), identifier, 1, 1)
			if err != nil {
				return fmt.Errorf("failed to fetch channel: %w", err)
			}
			channels = append(channels, channel)
		}

		if merge.ChannelsEqual(channels[0], channels[1]) {
			cmd.Println(color.GreenString("equal"))
		} else {
			cmd.Println(color.YellowString("different"))
		}
		return nil
	},
}

// channelDeleteCmd deletes a channel
var channelDeleteCmd = &cobra.Command{
	Use:   "delete IDENTIFIER",
	Short: "Delete a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to delete channel %s without --force", args[0])
		}

		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		if err := client.DeleteChannel(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete channel: %w", err)
		}

		cmd.Printf("Channel %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelCmd)
	channelCmd.AddCommand(channelInfoCmd)
	channelCmd.AddCommand(channelSearchCmd)
	channelCmd.AddCommand(channelCreateCmd)
	channelCmd.AddCommand(channelCompareCmd)
	channelCmd.AddCommand(channelDeleteCmd)

	channelDeleteCmd.Flags().Bool("force", false, "Confirm the deletion")
}
