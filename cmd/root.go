package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/arena-merge/internal/config"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Are.na channel tools",
	Long: `arena works with Are.na channels and blocks.
Its main command merges one channel into another without duplicating blocks.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := os.Getenv("ARENA_LOG_LEVEL")
		if verbose {
			level = "debug"
		}
		config.SetupLogger(os.Stderr, level)
		mergeFactory.KeepLogLevel = verbose
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
