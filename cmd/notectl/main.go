package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/smart-notes/cmd/notectl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "notectl",
		Short: "Command line tool for the smart notes analyzer",
		Long:  "CLI tool for running note analysis locally and inspecting the rule set",
	}

	rootCmd.AddCommand(commands.NewAnalyzeCmd())
	rootCmd.AddCommand(commands.NewRulesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
