package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// printJSON writes v to the command output as indented JSON
func printJSON(cmd *cobra.Command, v any) error {
	result, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	cmd.Println(string(result))
	return nil
}
