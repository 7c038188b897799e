package backcountry

import "github.com/lazuli-inc/ninjacatalog"

const Name = "backcountry"

// Fields is the column layout of the affiliate product feed.
var Fields = ninjacatalog.FieldIndex{
	ninjacatalog.FieldProductID:           0,
	ninjacatalog.FieldID:                  1,
	ninjacatalog.FieldName:                2,
	ninjacatalog.FieldBrand:               3,
	ninjacatalog.FieldDescription:         4,
	ninjacatalog.FieldAvailability:        5,
	ninjacatalog.FieldPrice:               6,
	ninjacatalog.FieldSalePrice:           7,
	ninjacatalog.FieldCurrency:            8,
	ninjacatalog.FieldLink:                9,
	ninjacatalog.FieldImageLink:           10,
	ninjacatalog.FieldGender:              11,
	ninjacatalog.FieldAge:                 12,
	ninjacatalog.FieldCategory:            13,
	ninjacatalog.FieldColor:               14,
	ninjacatalog.FieldSize:                15,
	ninjacatalog.FieldGtin:                16,
	ninjacatalog.FieldAdditionalImageLink: 17,
	ninjacatalog.FieldMaterial:            18,
}

func Site() ninjacatalog.SiteConfig {
	return ninjacatalog.SiteConfig{
		Name: Name,
		URL:  "https://www.backcountry.com",
		Engine: ninjacatalog.Engine{
			ConcurrentLimit: 8,
		},
		Feed: &ninjacatalog.FeedConfig{
			Fields:       Fields,
			HeaderMarker: "parent_id",
			InStock:      "in stock",
			TargetParam:  "mr:targetUrl",
			Images: ninjacatalog.ImageRules{
				Separator:       "http://",
				Scheme:          "http",
				SizeToken:       "/large/",
				SizeReplacement: "/1200/",
			},
			Attributes: []ninjacatalog.AttributeField{
				{Name: "Color", Field: ninjacatalog.FieldColor},
				{Name: "Size", Field: ninjacatalog.FieldSize},
				{Name: "Material", Field: ninjacatalog.FieldMaterial},
				{Name: "Gender", Field: ninjacatalog.FieldGender},
				{Name: "Age", Field: ninjacatalog.FieldAge},
			},
		},
	}
}
