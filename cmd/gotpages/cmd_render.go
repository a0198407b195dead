package main

import (
	"github.com/odvcencio/gotpages/pkg/log"
	"github.com/odvcencio/gotpages/pkg/site"
	"github.com/spf13/cobra"
)

func newRenderCmd(configPath *string) *cobra.Command {
	var fullBuild bool
	var private bool

	cmd := &cobra.Command{
		Use:   "render <repository>",
		Short: "Render one repository and refresh the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			builder := site.NewBuilder(cfg, fullBuild)
			report, err := builder.RenderOne(args[0], private)
			if err != nil {
				return err
			}
			log.Donef("%s", report.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&fullBuild, "full-build", false, "rebuild every page, ignoring staleness")
	cmd.Flags().BoolVar(&private, "private", false, "operate on the private store and output root")

	return cmd
}
