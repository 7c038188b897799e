package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/lazuli-inc/ninjacatalog"
	"github.com/lazuli-inc/ninjacatalog/sites"
)

var (
	scrapeFile         string
	scrapeAvailability bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <site> [url]...",
	Short: "Scrape product pages, or only their variant availability",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := sites.Lookup(args[0])
		if err != nil {
			return err
		}
		if site.Detail == nil {
			return fmt.Errorf("site %s has no product page parser", site.Name)
		}

		urls := args[1:]
		if scrapeFile != "" {
			fromFile, err := readLines(scrapeFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		refs := make([]ninjacatalog.ProductRef, 0, len(urls))
		for _, url := range urls {
			id, _ := ninjacatalog.ProductIdFromUrl(url)
			refs = append(refs, ninjacatalog.ProductRef{ID: id, Url: url})
		}

		app := site.NewCrawler()
		if scrapeAvailability {
			return printAvailability(cmd, app, *site.Detail, refs)
		}

		closeSinks, err := attachSinks(cmd.Context(), app)
		if err != nil {
			return err
		}
		defer closeSinks()
		return app.ScrapeProducts(cmd.Context(), *site.Detail, refs)
	},
}

func printAvailability(cmd *cobra.Command, app *ninjacatalog.Crawler, config ninjacatalog.DetailConfig, refs []ninjacatalog.ProductRef) error {
	var mu sync.Mutex
	encoder := json.NewEncoder(cmd.OutOrStdout())
	return app.ScrapeAvailability(cmd.Context(), config, refs, func(ref ninjacatalog.ProductRef, variants []ninjacatalog.Variant) error {
		mu.Lock()
		defer mu.Unlock()
		return encoder.Encode(map[string]interface{}{"url": ref.Url, "variants": variants})
	})
}

func readLines(fileName string) ([]string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeFile, "file", "f", "", "file with one product url per line")
	scrapeCmd.Flags().BoolVar(&scrapeAvailability, "availability", false, "print variant price and stock instead of storing products")
}
