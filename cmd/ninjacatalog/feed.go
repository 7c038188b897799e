package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazuli-inc/ninjacatalog"
	"github.com/lazuli-inc/ninjacatalog/sites"
)

var feedFile string

var feedCmd = &cobra.Command{
	Use:   "feed <site>",
	Short: "Normalize a site's affiliate product feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := sites.Lookup(args[0])
		if err != nil {
			return err
		}
		if site.Feed == nil {
			return fmt.Errorf("site %s has no product feed", site.Name)
		}

		file, err := os.Open(feedFile)
		if err != nil {
			return fmt.Errorf("failed to open feed: %w", err)
		}
		defer file.Close()

		app := site.NewCrawler()
		closeSinks, err := attachSinks(cmd.Context(), app)
		if err != nil {
			return err
		}
		defer closeSinks()

		summary, err := app.ParseFeed(cmd.Context(), *site.Feed, ninjacatalog.NewCSVRowSource(file))
		fmt.Printf(`
=== Feed Report ===
Rows:      %d
Products:  %d
Headers:   %d
Skipped:   %d
===================
`, summary.TotalRows, summary.Products, summary.Headers, summary.Skipped)
		return err
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedFile, "file", "f", "", "path to the feed CSV")
	_ = feedCmd.MarkFlagRequired("file")
}
