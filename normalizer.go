package ninjacatalog

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const urlTrimSet = " \t\r\n,;|"

var priceNumberPattern = regexp.MustCompile(`[-+]?\d[\d,]*(?:\.\d+)?`)

// ImageRules describe how a packed list of image URLs is split and rewritten.
type ImageRules struct {
	Separator       string
	Scheme          string
	SizeToken       string
	SizeReplacement string
}

// CleanUrl trims separators left over from packed lists and validates the result.
// scheme is prepended when raw has none; pass "" to require an absolute URL.
func CleanUrl(raw, scheme string) (string, error) {
	cleaned := strings.Trim(strings.TrimSpace(raw), urlTrimSet)
	if cleaned == "" {
		return "", ErrEmptyUrl
	}
	if scheme != "" {
		if strings.HasPrefix(cleaned, "//") {
			cleaned = scheme + ":" + cleaned
		} else if !strings.Contains(cleaned, "://") {
			cleaned = scheme + "://" + cleaned
		}
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUrl, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidUrl, cleaned)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: no host in %q", ErrInvalidUrl, cleaned)
	}
	return parsed.String(), nil
}

// ExtractCanonicalUrl returns the cleaned target URL carried in the affiliate
// link's query parameter param.
func ExtractCanonicalUrl(affiliateUrl, param string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(affiliateUrl))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingTargetUrl, err)
	}
	target := parsed.Query().Get(param)
	if strings.TrimSpace(target) == "" {
		return "", ErrMissingTargetUrl
	}
	return CleanUrl(target, "")
}

// AggregateImages merges the primary image with a packed list of additional ones.
// Fragments that do not form a valid URL are dropped and duplicates are removed
// after the size rewrite, keeping first occurrence order.
func AggregateImages(primary, additional, selector string, rules ImageRules) []Asset {
	scheme := rules.Scheme
	if scheme == "" {
		scheme = "http"
	}

	candidates := []string{primary}
	if additional != "" && rules.Separator != "" {
		for _, fragment := range strings.Split(additional, rules.Separator) {
			if strings.TrimSpace(fragment) == "" {
				continue
			}
			if !strings.Contains(fragment, "://") {
				fragment = scheme + "://" + fragment
			}
			candidates = append(candidates, fragment)
		}
	} else if additional != "" {
		candidates = append(candidates, additional)
	}

	assets := make([]Asset, 0, len(candidates))
	for _, candidate := range candidates {
		cleaned, err := CleanUrl(candidate, scheme)
		if err != nil {
			continue
		}
		if rules.SizeToken != "" {
			cleaned = strings.ReplaceAll(cleaned, rules.SizeToken, rules.SizeReplacement)
		}
		assets = append(assets, Asset{Url: cleaned, Selector: selector, Kind: AssetImage})
	}
	return UniqueAssets(assets)
}

func UniqueAssets(assets []Asset) []Asset {
	seen := make(map[string]bool, len(assets))
	unique := make([]Asset, 0, len(assets))
	for _, asset := range assets {
		if seen[asset.Url] {
			continue
		}
		seen[asset.Url] = true
		unique = append(unique, asset)
	}
	return unique
}

// StockFromAvailability maps an availability label to a stock quantity.
func StockFromAvailability(availability, inStock string) int64 {
	if availability == inStock {
		return StockUnlimited
	}
	return 0
}

// ParsePrice reads the first number from a price label such as "$1,299.00".
func ParsePrice(raw string) (float64, error) {
	match := priceNumberPattern.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return value, nil
}

// NewPrice raises fmp to value when the market price is below the selling price.
func NewPrice(value, fmp float64, currency string) Price {
	if fmp < value {
		fmp = value
	}
	return Price{Value: value, Fmp: fmp, Currency: currency}
}

// FeedPrice builds a price from a feed's list and sale columns. The sale price
// is used as the selling value when present.
func FeedPrice(list, sale, currency string) (Price, error) {
	list, sale = strings.TrimSpace(list), strings.TrimSpace(sale)
	if list == "" && sale == "" {
		return Price{}, fmt.Errorf("%w: no list or sale price", ErrInvalidPrice)
	}

	var fmp float64
	if list != "" {
		parsed, err := ParsePrice(list)
		if err != nil {
			return Price{}, err
		}
		fmp = parsed
	}

	value := fmp
	if sale != "" {
		parsed, err := ParsePrice(sale)
		if err != nil {
			return Price{}, err
		}
		value = parsed
	}
	return NewPrice(value, fmp, strings.TrimSpace(currency)), nil
}

// FilterAttributes keeps the candidates with a non-blank value.
func FilterAttributes(items []AttributeItem) map[string]string {
	attributes := make(map[string]string, len(items))
	for _, item := range items {
		value := strings.TrimSpace(item.Value)
		if value == "" {
			continue
		}
		attributes[item.Key] = value
	}
	return attributes
}

// SizeAttribute builds the size option block, or nil when there are no sizes.
func SizeAttribute(sizes []string) *AttributeBlock {
	values := make([]AttributeValue, 0, len(sizes))
	for _, size := range sizes {
		size = strings.TrimSpace(size)
		if size == "" {
			continue
		}
		values = append(values, AttributeValue{ID: size, Name: size})
	}
	if len(values) == 0 {
		return nil
	}
	return &AttributeBlock{ID: "size", Name: "Size", Values: values}
}

// CategoryPath reads breadcrumb labels in document order, dropping the root crumb.
func CategoryPath(doc *goquery.Selection, selector string) []string {
	path := []string{}
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			return
		}
		if label := strings.TrimSpace(s.Text()); label != "" {
			path = append(path, label)
		}
	})
	return path
}

// ProductIdFromUrl derives a product id from the last path segment of a product
// url: the trailing "-token" is dropped and the rest is joined with underscores.
func ProductIdFromUrl(rawUrl string) (string, error) {
	var segment string
	segments := strings.Split(productPath(strings.TrimSpace(rawUrl)), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			segment = segments[i]
			break
		}
	}

	tokens := strings.Split(segment, "-")
	if len(tokens) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidProductUrl, rawUrl)
	}
	id := strings.ReplaceAll(strings.Join(tokens[:len(tokens)-1], "_"), "%", "_")
	id = stripProductId(id)
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidProductUrl, rawUrl)
	}
	return id, nil
}

// productPath returns the escaped path of rawUrl. Stray percent signs make
// url.Parse fail, so the raw string is cut at the query and fragment instead.
func productPath(rawUrl string) string {
	if parsed, err := url.Parse(rawUrl); err == nil {
		return parsed.EscapedPath()
	}
	if i := strings.IndexAny(rawUrl, "?#"); i >= 0 {
		rawUrl = rawUrl[:i]
	}
	if _, rest, ok := strings.Cut(rawUrl, "://"); ok {
		rawUrl = rest
		if i := strings.Index(rawUrl, "/"); i >= 0 {
			rawUrl = rawUrl[i:]
		} else {
			rawUrl = ""
		}
	}
	return rawUrl
}

func stripProductId(id string) string {
	return strings.TrimSpace(id)
}
