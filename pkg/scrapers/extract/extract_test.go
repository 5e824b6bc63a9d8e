package extract

import (
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func card(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Find("div.card").First()
}

func TestFirstStopsAtFirstHit(t *testing.T) {
	sel := card(t, `<div class="card"><span class="b">second</span><span class="a">first</span></div>`)

	got := First(sel, Text(".missing"), Text(".a"), Text(".b"))
	if got != "first" {
		t.Errorf("First = %q, want %q", got, "first")
	}
}

func TestFirstAllMiss(t *testing.T) {
	sel := card(t, `<div class="card"></div>`)
	if got := First(sel, Text(".x"), Attr(".y", "href")); got != "" {
		t.Errorf("First = %q, want empty", got)
	}
}

func TestAttrRegex(t *testing.T) {
	sel := card(t, `<div class="card"><div class="p" aria-label="Hind: 1,19€"></div></div>`)
	re := regexp.MustCompile(`Hind:\s*([0-9,]+)€`)

	if got := AttrRegex(".p", "aria-label", re)(sel); got != "1,19" {
		t.Errorf("AttrRegex = %q, want 1,19", got)
	}
	if got := AttrRegex(".p", "title", re)(sel); got != "" {
		t.Errorf("missing attribute should return empty, got %q", got)
	}
}

func TestTextRegexOnCardItself(t *testing.T) {
	sel := card(t, `<div class="card">ale 2,49 €</div>`)
	re := regexp.MustCompile(`([0-9]+,[0-9]+)`)

	if got := TextRegex("", re)(sel); got != "2,49" {
		t.Errorf("TextRegex = %q, want 2,49", got)
	}
}

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://shop.example/listing/page")

	tests := []struct{ href, want string }{
		{"/toode/beer", "https://shop.example/toode/beer"},
		{"https://cdn.example/i.jpg", "https://cdn.example/i.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolveURL(base, tt.href); got != tt.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}

	if got := ResolveURL(nil, "/x"); got != "/x" {
		t.Errorf("nil base should pass through, got %q", got)
	}
}
