package ninjacatalog

import "math"

// StockUnlimited is recorded for variants whose source only reports "available".
const StockUnlimited int64 = math.MaxInt64

// Category levels of the navigation tree.
const (
	LevelTop   = 1
	LevelGroup = 2
	LevelLeaf  = 3
)

type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// Category is a node of a site's navigation tree. Url and ParentID are empty
// for grouping nodes and top-level nodes respectively.
type Category struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name" bson:"name"`
	Index       int          `json:"index" bson:"index"`
	Level       int          `json:"level" bson:"level"`
	Url         string       `json:"url,omitempty" bson:"url,omitempty"`
	ParentID    string       `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	ProductUrls []ProductRef `json:"product_urls" bson:"product_urls"`
}

func (c *Category) IsLeaf() bool {
	return c.Level == LevelLeaf
}

type ProductRef struct {
	ID  string `json:"id" bson:"id"`
	Url string `json:"url" bson:"url"`
}

type Product struct {
	ID           string            `json:"id" bson:"_id"`
	Name         string            `json:"name" bson:"name"`
	Brand        string            `json:"brand,omitempty" bson:"brand,omitempty"`
	Description  string            `json:"description" bson:"description"`
	Url          string            `json:"url" bson:"url"`
	AffiliateUrl string            `json:"affiliate_url,omitempty" bson:"affiliate_url,omitempty"`
	Images       []Asset           `json:"images" bson:"images"`
	Categories   []string          `json:"categories" bson:"categories"`
	Variants     []Variant         `json:"variants" bson:"variants"`
	Attributes   map[string]string `json:"attributes" bson:"attributes"`
	Options      []AttributeBlock  `json:"options,omitempty" bson:"options,omitempty"`
}

type Variant struct {
	VariantID     string            `json:"variant_id" bson:"variant_id"`
	SKU           string            `json:"sku,omitempty" bson:"sku,omitempty"`
	MPN           string            `json:"mpn,omitempty" bson:"mpn,omitempty"`
	UPC           string            `json:"upc,omitempty" bson:"upc,omitempty"`
	StockQuantity int64             `json:"stock_quantity" bson:"stock_quantity"`
	Selection     map[string]string `json:"selection,omitempty" bson:"selection,omitempty"`
	Price         Price             `json:"price" bson:"price"`
}

func (v Variant) InStock() bool {
	return v.StockQuantity > 0
}

// Price holds the selling value and the full market price. Fmp is never below Value.
type Price struct {
	Value    float64 `json:"value" bson:"value"`
	Fmp      float64 `json:"fmp" bson:"fmp"`
	Currency string  `json:"currency" bson:"currency"`
}

type Asset struct {
	Url      string    `json:"url" bson:"url"`
	Selector string    `json:"selector,omitempty" bson:"selector,omitempty"`
	Kind     AssetKind `json:"kind" bson:"kind"`
}

type AttributeBlock struct {
	ID     string           `json:"id" bson:"id"`
	Name   string           `json:"name" bson:"name"`
	Values []AttributeValue `json:"values" bson:"values"`
}

type AttributeValue struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// AttributeItem is a candidate attribute read from a source, kept in source order.
type AttributeItem struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}
