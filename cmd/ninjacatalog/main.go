package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lazuli-inc/ninjacatalog/sites"
)

var sinkNames []string

var rootCmd = &cobra.Command{
	Use:          "ninjacatalog",
	Short:        "Collect retailer catalogs from navigation menus, feeds and product pages",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&sinkNames, "sink", []string{"jsonl"},
		"where records go: jsonl, mongo, bigquery, datastore, api (comma separated)")
	rootCmd.AddCommand(crawlCmd, feedCmd, scrapeCmd, exportCmd, sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the configured sites",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sites.Names() {
			fmt.Println(name)
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
