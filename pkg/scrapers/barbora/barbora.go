// Package barbora scrapes product listing pages on barbora.ee.
package barbora

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

const listingSelector = ".product-card-next"

var (
	// aria-label looks like "Soodushind Hind: 1,19€" or "Tavahind Hind: 2,49€".
	ariaPriceRe  = regexp.MustCompile(`Hind:\s*([0-9]+[.,][0-9]+)\s*€`)
	promoPriceRe = regexp.MustCompile(`([0-9]+[.,][0-9]+)`)
)

type Scraper struct{}

func New() *Scraper {
	return &Scraper{}
}

func (s *Scraper) Store() models.Store {
	return models.StoreBarbora
}

// Prepare waits for the product grid and scrolls to trigger lazy loading.
// A wait timeout is tolerated; extraction proceeds with whatever rendered.
func (s *Scraper) Prepare(sess *browser.Session) bool {
	if !sess.WaitVisible(listingSelector, 7*time.Second) {
		logger.Warnf(logger.KindExtraction, "barbora: product cards did not appear in time, proceeding anyway")
	}
	sess.ClickButtonWithText("Nõustun", 2*time.Second)
	if err := sess.ScrollAndSettle(5, 3000, 500*time.Millisecond); err != nil {
		logger.Warnf(logger.KindNavigation, "barbora: scroll failed: %v", err)
	}
	return true
}

// Extract pulls raw product records out of a rendered listing snapshot.
// Price extraction tries the itemprop meta first (most reliable), then the
// aria-label pattern, then the promo price container.
func (s *Scraper) Extract(base *url.URL, doc *goquery.Document) []models.RawProduct {
	var out []models.RawProduct
	doc.Find(listingSelector).Each(func(_ int, card *goquery.Selection) {
		name := extract.First(card,
			extract.Text("span[id*='product-title']"),
			extract.Text("a[href*='/toode/']"),
		)
		priceText := extract.First(card,
			extract.Attr(`meta[itemprop="price"]`, "content"),
			extract.AttrRegex(`div[aria-label*="Hind:"]`, "aria-label", ariaPriceRe),
			extract.TextRegex(`[data-testid="promoColouredContainer"]`, promoPriceRe),
		)
		if name == "" || priceText == "" {
			return
		}

		aria, _ := card.Find(`div[aria-label*="Hind:"]`).First().Attr("aria-label")
		isSale := strings.Contains(aria, "Soodushind") ||
			card.Find(`[data-testid="promoColouredContainer"]`).Length() > 0

		out = append(out, models.RawProduct{
			Name:      name,
			URL:       extract.ResolveURL(base, extract.First(card, extract.Attr("a[href*='/toode/']", "href"))),
			Img:       extract.ResolveURL(base, extract.First(card, extract.Attr("img", "src"))),
			PriceText: priceText,
			UnitText:  extract.First(card, extract.Text("div.text-2xs")),
			IsSale:    isSale,
		})
	})
	return out
}
