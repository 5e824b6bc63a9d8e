// Package rimi scrapes product listing pages on rimi.ee. Rimi has churned
// through several frontend revisions, so both the card selector and every
// field are resolved through ordered fallback chains.
package rimi

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricetrail/pkg/browser"
	"pricetrail/pkg/logger"
	"pricetrail/pkg/models"
	"pricetrail/pkg/scrapers/extract"
)

// cardSelectors are tried in order; the first one that matches any elements
// on the page wins.
var cardSelectors = []string{
	".card",
	`[data-testid="product-card"]`,
	".product-card",
	".product-item",
	`[class*="ProductCard"]`,
}

var (
	digitsRe    = regexp.MustCompile(`\D`)
	anyPriceRe  = regexp.MustCompile(`([0-9]+[.,][0-9]{2})`)
	looseNumRe  = regexp.MustCompile(`([0-9]+[.,]?[0-9]*)`)
	cookieTexts = []string{"Nõustu", "Nõustun", "Accept"}
)

type Scraper struct{}

func New() *Scraper {
	return &Scraper{}
}

func (s *Scraper) Store() models.Store {
	return models.StoreRimi
}

// Prepare waits for any known card selector, dismisses cookie banners, and
// scrolls to trigger lazy loading. Returns false when nothing matching a
// product card ever appears.
func (s *Scraper) Prepare(sess *browser.Session) bool {
	found := false
	for _, sel := range cardSelectors {
		if sess.WaitVisible(sel, 5*time.Second) {
			found = true
			break
		}
	}
	if !found {
		logger.Warnf(logger.KindExtraction, "rimi: no product cards found with any known selector")
		return false
	}

	for _, text := range cookieTexts {
		if sess.ClickButtonWithText(text, 2*time.Second) {
			break
		}
	}

	if err := sess.ScrollAndSettle(6, 2500, 400*time.Millisecond); err != nil {
		logger.Warnf(logger.KindNavigation, "rimi: scroll failed: %v", err)
	}
	return true
}

// Extract pulls raw product records out of a rendered listing snapshot.
func (s *Scraper) Extract(base *url.URL, doc *goquery.Document) []models.RawProduct {
	cards := doc.Find(cardSelectors[0])
	for _, sel := range cardSelectors[1:] {
		if cards.Length() > 0 {
			break
		}
		cards = doc.Find(sel)
	}

	var out []models.RawProduct
	cards.Each(func(_ int, card *goquery.Selection) {
		name := extract.First(card,
			extract.Text(".card__name"),
			extract.Text(`[data-testid="product-name"]`),
			extract.Text("h3"),
			extract.Text(".product-name"),
			extract.Text(`[class*="name"]`),
		)

		priceText, isSale := price(card)
		if name == "" || name == "Unknown" || priceText == "" || priceText == "0" {
			return
		}

		unitText := ""
		if isSale {
			unitText = extract.First(card, extract.Text(".price-per-unit"))
		}
		if unitText == "" {
			unitText = extract.First(card, extract.Text(".card__price-per"))
		}

		out = append(out, models.RawProduct{
			Name:      name,
			URL:       extract.ResolveURL(base, extract.First(card, extract.Attr("a", "href"))),
			Img:       extract.ResolveURL(base, extract.First(card, extract.Attr("img", "src"))),
			PriceText: priceText,
			UnitText:  strings.Join(strings.Fields(unitText), " "),
			IsSale:    isSale,
		})
	})
	return out
}

// price resolves the displayed price through four methods in priority order.
// Only the first, the promotional price label, marks the product as on sale:
// sale here means the site rendered its promo price widget, nothing more.
func price(card *goquery.Selection) (string, bool) {
	// Promotional price label with split major/cents spans.
	label := card.Find(".price-label__price").First()
	if label.Length() > 0 {
		major := strings.TrimSpace(label.Find(".major").First().Text())
		cents := strings.TrimSpace(label.Find(".cents").First().Text())
		if major == "" {
			major = "0"
		}
		if cents == "" {
			cents = "00"
		}
		return major + "." + cents, true
	}

	// Regular price tag with superscript cents.
	tag := card.Find(".price-tag").First()
	if tag.Length() > 0 {
		main := strings.ReplaceAll(strings.TrimSpace(tag.Find("span").First().Text()), ",", ".")
		frac := digitsRe.ReplaceAllString(tag.Find("sup").First().Text(), "")
		if main != "" {
			if frac == "" {
				frac = "00"
			}
			if !strings.Contains(main, ".") {
				main += "."
			}
			return main + frac, false
		}
	}

	// Anything with a price-like class.
	if el := card.Find(`[class*="price"]`).First(); el.Length() > 0 {
		if m := looseNumRe.FindStringSubmatch(el.Text()); m != nil {
			return m[1], false
		}
	}

	// Last resort: any price-shaped number in the card's visible text.
	if m := anyPriceRe.FindStringSubmatch(card.Text()); m != nil {
		return m[1], false
	}
	return "", false
}
