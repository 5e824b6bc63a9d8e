// Package extract provides the small strategy vocabulary the per-store
// scrapers build their fallback tables from. A strategy pulls one field out
// of a product card; an empty string means "no result, try the next one".
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveURL makes href absolute against the page URL. Snapshot parsing sees
// raw attribute values, not the browser-resolved ones.
func ResolveURL(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Strategy extracts a single field from a product card selection.
type Strategy func(card *goquery.Selection) string

// First applies strategies in order and returns the first non-empty result.
func First(card *goquery.Selection, strategies ...Strategy) string {
	for _, s := range strategies {
		if v := strings.TrimSpace(s(card)); v != "" {
			return v
		}
	}
	return ""
}

// Text returns the trimmed text of the first element matching selector.
func Text(selector string) Strategy {
	return func(card *goquery.Selection) string {
		return strings.TrimSpace(card.Find(selector).First().Text())
	}
}

// Attr returns an attribute of the first element matching selector.
func Attr(selector, attr string) Strategy {
	return func(card *goquery.Selection) string {
		v, _ := card.Find(selector).First().Attr(attr)
		return strings.TrimSpace(v)
	}
}

// AttrRegex matches re against an attribute value and returns the first
// capture group.
func AttrRegex(selector, attr string, re *regexp.Regexp) Strategy {
	return func(card *goquery.Selection) string {
		v, ok := card.Find(selector).First().Attr(attr)
		if !ok {
			return ""
		}
		m := re.FindStringSubmatch(v)
		if m == nil {
			return ""
		}
		return m[1]
	}
}

// TextRegex matches re against the text of the first element matching
// selector (or the card itself when selector is empty) and returns the first
// capture group.
func TextRegex(selector string, re *regexp.Regexp) Strategy {
	return func(card *goquery.Selection) string {
		target := card
		if selector != "" {
			target = card.Find(selector).First()
		}
		m := re.FindStringSubmatch(target.Text())
		if m == nil {
			return ""
		}
		return m[1]
	}
}
