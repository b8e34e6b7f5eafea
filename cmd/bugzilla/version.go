package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openshift-eng/bugzilla-client/pkg/bugzilla"
	"github.com/openshift-eng/bugzilla-client/pkg/flags"
	"github.com/openshift-eng/bugzilla-client/pkg/flags/configflags"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

func NewVersionCommand() *cobra.Command {
	bugzillaFlags := flags.NewBugzillaFlags()
	configFlags := configflags.NewConfigFlags()

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client version, and the server version when an endpoint is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("client: %s\n", Version)

			cfg, err := configFlags.GetConfig()
			if err != nil {
				return err
			}
			bugzillaFlags.Apply(cfg)
			if cfg.URL == "" {
				return nil
			}

			client, err := bugzilla.New(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			serverVersion, err := client.ServerVersion()
			if err != nil {
				return err
			}
			fmt.Printf("server: %s\n", serverVersion)
			return nil
		},
	}

	bugzillaFlags.BindFlags(cmd.Flags())
	configFlags.BindFlags(cmd.Flags())
	return cmd
}
