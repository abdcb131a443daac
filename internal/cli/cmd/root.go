package cmd

import (
	"fmt"
	"os"

	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/cli/config"
	"github.com/jedsaxon/misinfodetector/internal/cli/logger"
	"github.com/jedsaxon/misinfodetector/internal/cli/output"
	"github.com/jedsaxon/misinfodetector/internal/client"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	apiURL     string
)

var rootCmd = &cobra.Command{
	Use:   "misinfo",
	Short: "Misinformation detector CLI",
	Long: `misinfo is a command-line client for the misinformation detector.
Browse the posts feed, submit new posts and explore the research
dashboard charts directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return fmt.Errorf("invalid output format %q: expected text, json or table", outputFmt)
			}
			config.Set("output.format", outputFmt)
		}
		if apiURL != "" {
			config.Set("api.base_url", apiURL)
		}

		client.Init()
		logger.Debug("CLI initialized",
			"config", config.GetConfigFile(),
			"api", config.GetString("api.base_url"),
		)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.RenderError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/misinfodetector/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Override api.base_url")

	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(versionCmd)
}

func newAPIClient() *api.Client {
	return api.NewClient(client.GetClient())
}
