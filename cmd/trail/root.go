package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trail",
	Short: "Trail is a stack-based FSM engine for guided learning activities",
	Long: `Trail runs graph-shaped learning activities as durable stack frames:
activities push onto a per-user stack, nest, pair with live sessions,
and survive process restarts.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}
