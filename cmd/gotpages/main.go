package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/gotpages/pkg/site"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "gotpages.toml"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "gotpages",
		Short: "Static HTML pages for got repositories",
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "site configuration file")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newRenderBatchCmd(&configPath))
	root.AddCommand(newInitCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gotpages 0.1.0-dev")
		},
	}
}

func loadConfig(path string) (site.Config, error) {
	expanded, err := site.ExpandPath(path)
	if err != nil {
		return site.Config{}, err
	}
	return site.LoadConfig(expanded)
}
