package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/lazuli-inc/ninjacatalog"
	"github.com/lazuli-inc/ninjacatalog/sites"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <site>...",
	Short: "Walk the category tree of one or more sites and collect their product urls",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ninja := ninjacatalog.NewNinjaCatalog()
		for _, name := range args {
			site, err := sites.Lookup(name)
			if err != nil {
				return err
			}
			if site.Category == nil {
				return fmt.Errorf("site %s has no category crawl", name)
			}
			ninja.AddSite(site)
		}

		var (
			mu      sync.Mutex
			closers []func()
		)
		defer func() {
			for _, closer := range closers {
				closer()
			}
		}()
		ninja.Setup(func(app *ninjacatalog.Crawler) error {
			closer, err := attachSinks(cmd.Context(), app)
			if err != nil {
				return err
			}
			mu.Lock()
			closers = append(closers, closer)
			mu.Unlock()
			return nil
		})
		return ninja.Start(cmd.Context())
	},
}
