package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courselets/trail/pkg/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect running sessions",
}

var sessionsOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List a user's abandoned activities",
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

		user, _ := cmd.Flags().GetString("user")
		r := &domain.Request{User: user}
		states, err := engine.Stack().ListOrphans(cmd.Context(), r)
		if err != nil {
			return err
		}
		for _, st := range states {
			fmt.Printf("%s\t%s\t%s\t%s\n", st.ID, st.Graph, st.Node, st.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	sessionsOrphansCmd.Flags().String("user", "", "Username to list orphans for")
	sessionsOrphansCmd.MarkFlagRequired("user")
	sessionsCmd.AddCommand(sessionsOrphansCmd)
	rootCmd.AddCommand(sessionsCmd)
}
