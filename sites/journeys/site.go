package journeys

import (
	"regexp"

	"github.com/lazuli-inc/ninjacatalog"
)

const Name = "journeys"

var productDataPattern = regexp.MustCompile(`maProductJson = (?P<data>.*);`)

func Site() ninjacatalog.SiteConfig {
	return ninjacatalog.SiteConfig{
		Name: Name,
		URL:  "https://www.journeys.com",
		Engine: ninjacatalog.Engine{
			ConcurrentLimit: 4,
		},
		Detail: &ninjacatalog.DetailConfig{
			DataPattern:       productDataPattern,
			ErrorRegion:       "div.panel-body",
			UnavailableMarker: "Product No Longer Available",
			Breadcrumb:        ".breadcrumb a",
			Gallery:           "#detailAltViewsWrap a",
			GalleryAttr:       "href",
			GallerySelector:   "gallery",
			ExcludeImageToken: "/noimage",
			ImageScheme:       "https",
			Currency:          "USD",
			Fields: ninjacatalog.DetailFields{
				SKUs:        "SKUs",
				SKU:         "SKU",
				StyleID:     "StyleID",
				UPC:         "MasterUPC",
				ListPrice:   "ListPrice",
				Price:       "Price",
				Size:        "Size1",
				Name:        "Name",
				Description: "LongDescription",
				Brand:       "VendorBrand",
				Sizes:       "RelatedSizes",
			},
		},
	}
}
