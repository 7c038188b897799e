package ninjacatalog

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GetFullUrl resolves href against the crawler's start url.
func (app *Crawler) GetFullUrl(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(app.Url)
	if err != nil {
		return app.BaseUrl + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return app.BaseUrl + href
	}
	return base.ResolveReference(ref).String()
}

func writePageContentToFile(directory, html, url, msg string) error {
	if html == "" {
		html = "No Page Content Found"
	}
	html = strings.TrimSpace(msg) + "\n" + html
	html = fmt.Sprintf("<!-- Time: %v \n Page Url: %s -->\n%s", time.Now(), url, html)

	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(directory, generateFilename(url)), []byte(html), 0644)
}

// generateFilename turns a url into a dated file name.
func generateFilename(rawURL string) string {
	invalidChars := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range invalidChars {
		rawURL = strings.ReplaceAll(rawURL, char, "_")
	}
	currentDate := time.Now().Format("2006-01-02")
	return currentDate + "_" + rawURL + ".html"
}

func generateCsvFileName(siteName string) string {
	return fmt.Sprintf("storage/data/%s/%s.csv", siteName, time.Now().Format("2006_01_02"))
}
