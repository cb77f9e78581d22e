// Package imagesearch implements the image tier ladder: a metasearch JSON
// API tier, a script-data scrape of the Google Images results page, and an
// authenticated gallery tier that clicks through to full-resolution
// sources. Tiers are ordered cheapest first; each one satisfies
// acquire.Tier and reports soft failures as errors so the ladder can fall
// through.
package imagesearch

import (
	"net/url"
)

// SizeFilter narrows a Google Images search to a size class. It maps to
// the tbs=isz: URL parameter and is independent of the MinDimension
// constraint, which is enforced by probing after discovery.
type SizeFilter string

const (
	SizeAny    SizeFilter = ""
	SizeLarge  SizeFilter = "large"
	SizeMedium SizeFilter = "medium"
	SizeIcon   SizeFilter = "icon"
)

func (s SizeFilter) param() string {
	switch s {
	case SizeLarge:
		return "isz:l"
	case SizeMedium:
		return "isz:m"
	case SizeIcon:
		return "isz:i"
	default:
		return ""
	}
}

// searchURL builds the Google Images results URL for a query.
func searchURL(query string, size SizeFilter) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("tbm", "isch")
	q.Set("hl", "en")
	if p := size.param(); p != "" {
		q.Set("tbs", p)
	}
	return "https://www.google.com/search?" + q.Encode()
}
