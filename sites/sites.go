// Package sites registers the retailer configurations by name.
package sites

import (
	"fmt"
	"sort"

	"github.com/lazuli-inc/ninjacatalog"
	"github.com/lazuli-inc/ninjacatalog/sites/alexandermcqueen"
	"github.com/lazuli-inc/ninjacatalog/sites/backcountry"
	"github.com/lazuli-inc/ninjacatalog/sites/journeys"
)

var registry = map[string]func() ninjacatalog.SiteConfig{
	alexandermcqueen.Name: alexandermcqueen.Site,
	backcountry.Name:      backcountry.Site,
	journeys.Name:         journeys.Site,
}

func Lookup(name string) (ninjacatalog.SiteConfig, error) {
	site, ok := registry[name]
	if !ok {
		return ninjacatalog.SiteConfig{}, fmt.Errorf("unknown site %q, expected one of %v", name, Names())
	}
	return site(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
