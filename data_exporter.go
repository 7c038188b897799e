package ninjacatalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const exportPageSize = 10000

var productCsvHeader = []string{
	"product_id",
	"name",
	"brand",
	"description",
	"url",
	"affiliate_url",
	"categories",
	"images",
	"attributes",
	"variant_id",
	"sku",
	"mpn",
	"upc",
	"selection",
	"price",
	"fmp",
	"currency",
	"stock_quantity",
}

// ExportProductsToCSV writes every stored product to a dated CSV under
// storage/data/<site> and returns the file name.
func (app *Crawler) ExportProductsToCSV(ctx context.Context, pager ProductPager) (string, error) {
	fileName := generateCsvFileName(app.Name)
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	count, err := exportProducts(ctx, pager, file, exportPageSize)
	if err != nil {
		return "", err
	}
	app.Logger.Summary("Exported (%d) rows to %s", count, fileName)
	return fileName, nil
}

// exportProducts writes one CSV row per variant and returns the number of rows.
func exportProducts(ctx context.Context, pager ProductPager, w io.Writer, pageSize int) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(productCsvHeader); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	count := 0
	for page := 1; ; page++ {
		products, err := pager.Products(ctx, page, pageSize)
		if err != nil {
			return count, fmt.Errorf("failed to read page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}
		for _, product := range products {
			rows, err := convertProductToRows(product)
			if err != nil {
				return count, err
			}
			if err := writer.WriteAll(rows); err != nil {
				return count, fmt.Errorf("failed to write record to CSV: %w", err)
			}
			count += len(rows)
		}
	}
	writer.Flush()
	return count, writer.Error()
}

func convertProductToRows(product Product) ([][]string, error) {
	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.Url)
	}
	shared := []interface{}{product.Categories, images, product.Attributes}
	encoded := make([]string, 0, len(shared))
	for _, value := range shared {
		jsonData, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("error marshalling product %s: %w", product.ID, err)
		}
		encoded = append(encoded, processEncodedString(string(jsonData)))
	}

	rows := make([][]string, 0, len(product.Variants))
	for _, variant := range product.Variants {
		selection := ""
		if len(variant.Selection) > 0 {
			jsonData, err := json.Marshal(variant.Selection)
			if err != nil {
				return nil, fmt.Errorf("error marshalling selection of %s: %w", product.ID, err)
			}
			selection = processEncodedString(string(jsonData))
		}
		rows = append(rows, []string{
			product.ID,
			product.Name,
			product.Brand,
			product.Description,
			product.Url,
			product.AffiliateUrl,
			encoded[0],
			encoded[1],
			encoded[2],
			variant.VariantID,
			variant.SKU,
			variant.MPN,
			variant.UPC,
			selection,
			formatPrice(variant.Price.Value),
			formatPrice(variant.Price.Fmp),
			variant.Price.Currency,
			strconv.FormatInt(variant.StockQuantity, 10),
		})
	}
	return rows, nil
}

func formatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func processEncodedString(text string) string {
	replacer := strings.NewReplacer("\\n", "\n", "\\u003e", ">", "\\u003c", "<", "\\u0026", "&")
	return replacer.Replace(text)
}
