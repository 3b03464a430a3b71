package main

import (
	"context"
	"fmt"

	"browser-automation/internal/di"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newLoginCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <url>",
		Short: "Log in with human help and save the session cookies",
		Long: `Opens the URL, asks the oracle what the page wants, prompts you for
the values it names and submits them, until the oracle reports a
logged-in page or the attempt limit is reached. Cookies for the target
domain are written to --cookie-path in both cases.

Secrets are echoed unless --mask-secrets is set and stdin is a terminal.`,
		Args: cobra.MaximumNArgs(1),
	}

	flags := cmd.Flags()
	flags.String("url", "", "Login page URL (alternative to the argument)")
	flags.String("target-domain", "", "Keep only cookies for this domain (default: host of the URL)")
	flags.String("cookie-path", "cookies.json", "Where to write the cookie file")
	flags.Int("max-attempts", 6, "Maximum number of fill cycles")
	flags.Duration("wait-timeout", 0, "How long to wait for the page to settle after submitting")
	flags.Duration("click-timeout", 0, "Timeout of each submit attempt")
	flags.Bool("mask-secrets", false, "Hide secret input when stdin is a terminal")
	flags.String("provider", "", "Oracle backend: openrouter, langchain or anthropic")
	flags.String("model", "", "Oracle model name")
	flags.String("oracle-base-url", "", "Oracle API base URL")
	addBrowserFlags(flags)

	keys := merge(browserKeys, map[string]string{
		"url":             "login.url",
		"target-domain":   "login.target_domain",
		"cookie-path":     "login.cookie_path",
		"max-attempts":    "login.max_attempts",
		"wait-timeout":    "login.wait_timeout",
		"click-timeout":   "login.click_timeout",
		"mask-secrets":    "login.mask_secrets",
		"provider":        "oracle.provider",
		"model":           "oracle.model",
		"oracle-base-url": "oracle.base_url",
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			v.Set("login.url", args[0])
		}
		return run(cmd, v, keys, func(ctx context.Context, c *di.Container) error {
			if c.Config.Login.URL == "" {
				return fmt.Errorf("a login URL is required")
			}

			runner, err := c.LoginRunner(ctx)
			if err != nil {
				return err
			}

			res, err := runner.Run(ctx, c.Config.Login.URL)
			if err != nil {
				return err
			}

			if res.Succeeded {
				fmt.Println(green("Logged in: " + res.Interpretation))
			} else {
				fmt.Println(red("Login not confirmed: " + res.Interpretation))
			}
			fmt.Printf("Saved %d cookies to %s after %d attempt(s)\n", res.CookiesSaved, res.CookiePath, res.Attempts)
			return nil
		})
	}

	return cmd
}
