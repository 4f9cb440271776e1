package main

import (
	"os"

	"github.com/spf13/cobra"

	"noisegraph/internal/config"
)

var configPath = config.DefaultConfigPath

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "noisegraph",
		Short:         "Noise propagation analysis for buildings",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Project config file")
	root.AddCommand(initCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(levelsCmd())
	root.AddCommand(reduceCmd())
	root.AddCommand(fixCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(plotCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}
