package main

import (
	"context"

	"browser-automation/internal/di"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultProfileName = "profiles-test-go"

func newProfilesCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Save login state into a named profile and reopen it",
		Long: `Creates the profile if it does not exist, opens a remote browser that
saves its changes back to the profile, waits for you, then opens a
second browser from the saved profile so you can check the state stuck.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().String("name", defaultProfileName, "Profile name")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd, v, map[string]string{"name": "browser.profile_name"}, func(ctx context.Context, c *di.Container) error {
			demo, err := c.ProfileDemo()
			if err != nil {
				return err
			}
			return demo.Run(ctx, c.Config.Browser.ProfileName)
		})
	}

	return cmd
}
