package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/munifin"
)

var (
	regionCaptionRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	refreshURLRe    = regexp.MustCompile(`(?i)url\s*=\s*'([^']+)'`)
	refreshBareRe   = regexp.MustCompile(`(?i)url\s*=\s*([^'"\s;]+)`)
)

// ParseRegion reads the region caption of a statistics result page, a
// left-aligned spanning cell such as "254026 Nordstemmen".
// Returns false if the page has no such caption.
func ParseRegion(html string) (munifin.Region, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return munifin.Region{}, false
	}

	var region munifin.Region
	var found bool
	doc.Find("td.left[colspan]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		m := regionCaptionRe.FindStringSubmatch(cellText(sel))
		if m == nil {
			return true
		}
		region = munifin.Region{Key: m[1], Name: strings.TrimSpace(m[2])}
		found = true
		return false
	})
	return region, found
}

// ParseRefresh returns the target of a meta refresh redirect, resolved
// against baseURL. Pages that build the refresh in a script are matched on
// the raw url='...' fragment. Returns false if there is no redirect.
func ParseRefresh(html string, baseURL string) (string, bool) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}

	var target string
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !strings.EqualFold(sel.AttrOr("http-equiv", ""), "refresh") {
				return true
			}
			content := sel.AttrOr("content", "")
			if m := refreshURLRe.FindStringSubmatch(content); m != nil {
				target = m[1]
			} else if m := refreshBareRe.FindStringSubmatch(content); m != nil {
				target = m[1]
			}
			return target == ""
		})
	}
	if target == "" {
		if m := refreshURLRe.FindStringSubmatch(html); m != nil {
			target = m[1]
		}
	}
	if target == "" {
		return "", false
	}

	resolved := resolveURL(base, target)
	return resolved, resolved != ""
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
