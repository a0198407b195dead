package main

import (
	"fmt"

	"github.com/odvcencio/gotpages/pkg/log"
	"github.com/odvcencio/gotpages/pkg/site"
	"github.com/spf13/cobra"
)

func newRenderBatchCmd(configPath *string) *cobra.Command {
	var fullBuild bool
	var private bool

	cmd := &cobra.Command{
		Use:   "render-batch",
		Short: "Render every repository in the store plus the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			builder := site.NewBuilder(cfg, fullBuild)
			batch, err := builder.RenderBatch(private)
			if err != nil {
				return err
			}

			rendered, skipped, failed := batch.Totals()
			log.Donef("batch complete: %d rendered, %d skipped, %d failed", rendered, skipped, failed)
			if aborted := batch.Aborted(); len(aborted) > 0 {
				return fmt.Errorf("aborted repositories: %v", aborted)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fullBuild, "full-build", false, "rebuild every page, ignoring staleness")
	cmd.Flags().BoolVar(&private, "private", false, "operate on the private store and output root")

	return cmd
}
