package main

import (
	"fmt"
	"os"

	"github.com/benvon/dayflow/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "dayflow-configure",
		Short: "Configuration tool for the dayflow scheduling daemon",
		Long:  "CLI tool for inspecting and updating the running daemon over its local HTTP API",
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "Base URL of the daemon's HTTP API")

	rootCmd.AddCommand(commands.NewSettingsCmd(&apiURL))
	rootCmd.AddCommand(commands.NewCheckCmd(&apiURL))
	rootCmd.AddCommand(commands.NewNotifyCmd(&apiURL))
	rootCmd.AddCommand(commands.NewHealthCmd(&apiURL))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
