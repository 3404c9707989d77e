package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/serikabot/serika/internal/config"
	"github.com/serikabot/serika/internal/version"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "serika",
		Short: "Serika is a conversational agent for real-time chat platforms",
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to the TOML config file")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to the chat platform and serve conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.GetInfo())
		},
	}
}
