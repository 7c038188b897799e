package main

import (
	"github.com/spf13/cobra"

	"github.com/lazuli-inc/ninjacatalog/sites"
)

var exportUpload bool

var exportCmd = &cobra.Command{
	Use:   "export <site>",
	Short: "Export a site's stored products to CSV and optionally upload it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := sites.Lookup(args[0])
		if err != nil {
			return err
		}
		app := site.NewCrawler()
		store, err := app.ConnectMongoStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())

		fileName, err := app.ExportProductsToCSV(cmd.Context(), store)
		if err != nil {
			return err
		}
		if exportUpload {
			return app.UploadToBucket(cmd.Context(), fileName)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "upload the CSV to GCS_BUCKET")
}
