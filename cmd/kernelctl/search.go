package main

import (
	"context"
	"fmt"
	"strings"

	"browser-automation/internal/di"
	"browser-automation/internal/usecase/search"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSearchCommand(v *viper.Viper) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Google in a stealth browser and print the results",
		Long: `Runs the query in the persistent "google" remote browser, or in a local
Chrome with --local. Results are printed one per block.`,
		Args: cobra.MinimumNArgs(1),
	}

	flags := cmd.Flags()
	flags.BoolVar(&local, "local", false, "Use a local Chrome instead of a remote browser")
	flags.Bool("headless", false, "Run the local browser without a window")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v.Set("browser.stealth", true)
		v.Set("browser.remote", !local)
		if !local {
			v.Set("browser.persistence_id", search.PersistenceID)
		}

		return run(cmd, v, map[string]string{"headless": "browser.headless"}, func(ctx context.Context, c *di.Container) error {
			s, err := c.Searcher(ctx)
			if err != nil {
				return err
			}
			results, err := s.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			for i, r := range results {
				fmt.Printf("%s\n%s\n\n", bold(fmt.Sprintf("[%d]", i+1)), r)
			}
			return nil
		})
	}

	return cmd
}
