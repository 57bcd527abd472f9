package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/arena-merge/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for arena.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [ACCESS_TOKEN]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file holding your Are.na personal access token.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var accessToken string
		if len(args) > 0 {
			accessToken = args[0]
		}

		if err := config.InitConfig(accessToken); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cmd.Printf("Created configuration file: %s\n", configPath)
		if accessToken == "" {
			cmd.Println("Please edit the access_token in this file.")
		}

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration file path and effective settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cmd.Printf("Configuration file: %s\n\n", configPath)

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		cmd.Printf("ACCESS_TOKEN: %s\n", maskToken(cfg.AccessToken))
		cmd.Printf("API_URL: %s\n", cfg.APIURL)
		cmd.Printf("PER_PAGE: %d\n", cfg.PerPage)
		cmd.Printf("CONCURRENCY: %d\n", cfg.Concurrency)
		cmd.Printf("REQUEST_TIMEOUT: %s\n", cfg.RequestTimeout)
		cmd.Printf("DATABASE_URL: %s\n", maskDatabaseURL(cfg.DatabaseURL))
		cmd.Printf("LOG_LEVEL: %s\n", cfg.LogLevel)

		return nil
	},
}

// maskToken keeps the last four characters of a token
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

func maskDatabaseURL(databaseURL string) string {
	if databaseURL == "" {
		return "(not set)"
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	return u.Redacted()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
