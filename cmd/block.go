package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/service/merge"
)

// blockCmd represents the block command
var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Are.na block operations",
	Long:  `Create, fetch, compare and delete Are.na blocks.`,
}

// blockCreateCmd adds a text block to a channel
var blockCreateCmd = &cobra.Command{
	Use:   "create CHANNEL",
	Short: "Add a block to a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		if content == "" {
			return fmt.Errorf("--content is required")
		}

		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		block, err := client.CreateBlock(cmd.Context(), args[0], title, content)
		if err != nil {
			return fmt.Errorf("failed to create block: %w", err)
		}

		cmd.Println("Block created successfully:")
		return printJSON(cmd, block)
	},
}

// blockGetCmd fetches a block by id
var blockGetCmd = &cobra.Command{
	Use:   "get BLOCK_ID",
	Short: "Fetch a block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBlockID(args[0])
		if err != nil {
			return err
		}

		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		block, err := client.GetBlock(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to fetch block: %w", err)
		}

		return printJSON(cmd, block)
	},
}

// blockCompareCmd compares the title and content of two blocks
var blockCompareCmd = &cobra.Command{
	Use:   "compare FIRST_ID SECOND_ID",
	Short: "Check whether two blocks have the same title and content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		blocks := make([]*model.Block, 0, 2)
		for _, arg := range args {
			id, err := parseBlockID(arg)
			if err != nil {
				return err
			}
			block, err := client.GetBlock(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to fetch block: %w", err)
			}
			blocks = append(blocks, block)
		}

		if merge.BlocksEqual(*blocks[0], *blocks[1]) {
			cmd.Println(color.GreenString("equal"))
		} else {
			cmd.Println(color.YellowString("different"))
		}
		return nil
	},
}

// blockDeleteCmd deletes a block
var blockDeleteCmd = &cobra.Command{
	Use:   "delete BLOCK_ID",
	Short: "Delete a block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBlockID(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to delete block %d without --force", id)
		}

		client, _, err := newArenaClient()
		if err != nil {
			return err
		}

		if err := client.DeleteBlock(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete block: %w", err)
		}

		cmd.Printf("Block %d deleted\n", id)
		return nil
	},
}

func parseBlockID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.CodeInvalidArg, fmt.Sprintf("invalid block id: %s", s))
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(blockCmd)
	blockCmd.AddCommand(blockCreateCmd)
	blockCmd.AddCommand(blockGetCmd)
	blockCmd.AddCommand(blockCompareCmd)
	blockCmd.AddCommand(blockDeleteCmd)

	blockCreateCmd.Flags().String("title", "", "Block title")
	blockCreateCmd.Flags().String("content", "", "Block text content")
	blockDeleteCmd.Flags().Bool("force", false, "Confirm the deletion")
}
