package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"browser-automation/internal/di"
	"browser-automation/internal/infrastructure/config"
	"browser-automation/internal/infrastructure/env"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	if _, err := env.Load("."); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}

	if err := newRootCommand(config.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "kernelctl",
		Short: "Browser automation against local Chrome or hosted browser sessions",
		Long: fmt.Sprintf(`%s

Drives Chrome locally or through the hosted session API: an oracle-guided
login that saves cookies, named profiles, persistent browsers and searches.

%s
  kernelctl login https://example.com/login
  kernelctl login https://example.com/login --remote --persistence-id example
  kernelctl profiles --name profiles-test-go
  kernelctl provision --github-user octocat
  kernelctl unwatch --username octocat --url github.com/golang/go
  kernelctl search "go rod stealth" --local --headless`,
			bold("kernelctl"),
			bold("EXAMPLES:")),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "debug", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-dir", "log", "Directory for log files")

	root.AddCommand(newLoginCommand(v))
	root.AddCommand(newProfilesCommand(v))
	root.AddCommand(newProvisionCommand(v))
	root.AddCommand(newUnwatchCommand(v))
	root.AddCommand(newSearchCommand(v))

	return root
}

var persistentKeys = map[string]string{
	"log-level": "log.level",
	"log-dir":   "log.dir",
}

// run binds the command's flags, builds a container and runs fn with a
// context cancelled on SIGINT/SIGTERM.
func run(cmd *cobra.Command, v *viper.Viper, keys map[string]string, fn func(ctx context.Context, c *di.Container) error) error {
	if err := config.BindFlags(v, cmd.Flags(), persistentKeys); err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags(), keys); err != nil {
		return err
	}

	container, err := di.NewContainer(config.Load(v), cmd.Name())
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container.Logger.Info("Command started", "command", cmd.Name())
	if err := fn(ctx, container); err != nil {
		container.Logger.Error("Command failed", "command", cmd.Name(), "error", err)
		return err
	}
	container.Logger.Info("Command finished", "command", cmd.Name())
	return nil
}

func addBrowserFlags(flags *pflag.FlagSet) {
	flags.Bool("headless", false, "Run the browser without a window")
	flags.Bool("stealth", false, "Apply stealth evasions to new pages")
	flags.Bool("remote", false, "Create the browser through the session API")
	flags.String("persistence-id", "", "Reuse a persistent remote browser with this id")
	flags.String("profile", "", "Bind the remote browser to this profile")
	flags.Duration("browser-timeout", 0, "Default timeout of browser operations")
}

var browserKeys = map[string]string{
	"headless":        "browser.headless",
	"stealth":         "browser.stealth",
	"remote":          "browser.remote",
	"persistence-id":  "browser.persistence_id",
	"profile":         "browser.profile_name",
	"browser-timeout": "browser.timeout",
}

func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, val := range m {
			out[k] = val
		}
	}
	return out
}
