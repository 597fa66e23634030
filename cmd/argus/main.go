package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/argus-sec/argus/internal/bootstrap"
	"github.com/argus-sec/argus/pkg/version"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "argus",
		Short: "Argus endpoint security console",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, _, err := bootstrap.Bootstrap(configFile, initApp)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			bootstrap.Run(app, cleanup)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "conf", "conf.d", "conf dir path, e.g. --conf ./conf.d")
	root.AddCommand(version.VersionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
