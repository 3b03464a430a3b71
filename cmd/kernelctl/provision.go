package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"browser-automation/internal/application/port/input"
	"browser-automation/internal/di"
	"browser-automation/internal/usecase/provision"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newProvisionCommand(v *viper.Viper) *cobra.Command {
	var req input.ProvisionRequest
	var githubUser string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a persistent remote browser and check whether it is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if githubUser != "" {
				user, err := provision.CleanupUsername(githubUser)
				if err != nil {
					return err
				}
				if req.PersistenceID == "" {
					req.PersistenceID = provision.GitHubPersistenceID(user)
				}
				if req.LoginURL == "" {
					req.LoginURL = provision.GitHubLoginURL
				}
				if req.LoggedInSelector == "" {
					req.LoggedInSelector = provision.GitHubAvatarSelector
				}
			}

			return run(cmd, v, nil, func(ctx context.Context, c *di.Container) error {
				p, err := c.Provisioner()
				if err != nil {
					return err
				}
				out, err := p.Provision(ctx, req)
				if err != nil {
					return err
				}
				return printOutput(out)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.PersistenceID, "persistence-id", "", "Persistent browser id")
	flags.StringVar(&req.LoginURL, "login-url", "", "Login page to open")
	flags.StringVar(&req.LoggedInSelector, "logged-in-selector", "", "Selector that is only visible when logged in")
	flags.StringVar(&githubUser, "github-user", "", "Shortcut for a GitHub browser of this user")

	return cmd
}

func newUnwatchCommand(v *viper.Viper) *cobra.Command {
	var req input.UnwatchRequest

	cmd := &cobra.Command{
		Use:   "unwatch",
		Short: "Switch a GitHub repository to participating-only notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, nil, func(ctx context.Context, c *di.Container) error {
				p, err := c.Provisioner()
				if err != nil {
					return err
				}
				out, err := p.Unwatch(ctx, req)
				if err != nil {
					return err
				}
				return printOutput(out)
			})
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "GitHub username of the persistent browser")
	cmd.Flags().StringVar(&req.URL, "url", "", "Repository URL")

	return cmd
}

func printOutput(out *input.ActionOutput) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("%s", out.Message)
	}
	return nil
}
