package main

import (
	"path/filepath"

	"github.com/odvcencio/gotpages/pkg/log"
	"github.com/odvcencio/gotpages/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(configPath *string) *cobra.Command {
	var private bool
	var owner string

	cmd := &cobra.Command{
		Use:   "init <name> <description>",
		Short: "Create an empty repository in the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			name, description := args[0], args[1]

			path := filepath.Join(cfg.StoreRoot(private), name)
			r, err := repo.Init(path)
			if err != nil {
				return err
			}
			if err := r.WriteOwner(owner); err != nil {
				return err
			}
			if err := r.WriteDescription(description); err != nil {
				return err
			}

			log.Infof("created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "create the repository in the private store")
	cmd.Flags().StringVar(&owner, "owner", "", "repository owner shown on the index")

	return cmd
}
