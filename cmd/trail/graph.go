package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect deployed graphs",
}

var graphListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployed graph names",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, cleanup, _, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		names, err := engine.GraphStore().ListGraphs(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			g, err := engine.GraphStore().GetGraph(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\t%s\n", g.Name, g.ID, g.Title)
		}
		return nil
	},
}

func init() {
	graphCmd.AddCommand(graphListCmd)
	rootCmd.AddCommand(graphCmd)
}
