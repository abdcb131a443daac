package cmd

import (
	"fmt"

	"github.com/jedsaxon/misinfodetector/internal/cli/config"
	"github.com/jedsaxon/misinfodetector/internal/cli/output"
	"github.com/spf13/cobra"
)

// Version is the CLI release version
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(output.Out, "misinfo CLI v%s\n", Version)
		output.PrintInfo("Config directory: %s", config.GetConfigDir())
	},
}
