package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courselets/trail/pkg/graphspec"
)

var deployCmd = &cobra.Command{
	Use:   "deploy [spec.yaml...]",
	Short: "Deploy activity graphs",
	Long: `Installs the builtin graph bundles, plus any YAML graph specs given
as arguments. Redeploying an existing graph keeps the previous
generation under "<name>OLD" so in-flight activities keep running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, cleanup, logger, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		sources := builtinSources()
		for _, path := range args {
			spec, err := graphspec.LoadFile(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			sources = append(sources, graphspec.SourceFunc(func() []*graphspec.Spec {
				return []*graphspec.Spec{spec}
			}))
		}

		owner, _ := cmd.Flags().GetString("owner")
		deployed, err := engine.Deploy(cmd.Context(), owner, sources...)
		if err != nil {
			return err
		}
		logger.Info("deploy complete", "graphs", len(deployed))
		for _, g := range deployed {
			fmt.Printf("%s\t%s\n", g.Name, g.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().String("owner", "system", "Owner recorded on deployed graphs")
}
