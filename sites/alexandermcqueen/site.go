package alexandermcqueen

import "github.com/lazuli-inc/ninjacatalog"

const Name = "alexander_mc_queen"

func Site() ninjacatalog.SiteConfig {
	return ninjacatalog.SiteConfig{
		Name: Name,
		URL:  "https://www.alexandermcqueen.com/en-us",
		Engine: ninjacatalog.Engine{
			ConcurrentLimit: 4,
		},
		Category: &ninjacatalog.CategoryCrawlerConfig{
			Selectors: ninjacatalog.NavigationSelectors{
				TopItem:      "ul.c-nav__level1 > li[data-ref=item]",
				GroupItem:    "ul.c-nav__level2 li[data-ref=group]",
				LeafLink:     "ul.c-nav__level3 li > a",
				GroupLabel:   "button",
				LinkLabel:    "a",
				ProductTile:  "li.l-productgrid__item > article.c-product",
				ProductLink:  "a[itemprop=url]",
				LoadMore:     "button.c-loadmore__btn",
				LoadMoreAttr: "data-url",
			},
			SkipTop:    []string{"world of mcqueen"},
			SkipSecond: []string{"collections"},
		},
	}
}
