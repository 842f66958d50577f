package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "market-analyzer",
	Short: "A CLI for managing the Golang Market Analyzer services",
	Long:  `Golang Market Analyzer aggregates hot stocks, topics, themes and industry news into a rule-based market assessment...`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
