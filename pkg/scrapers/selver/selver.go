// Package selver scrapes product listing pages on selver.ee.
package selver

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricetrail/pkg/browser"
	"pricetrail/pkg/logger"
	"pricetrail/pkg/models"
	"pricetrail/pkg/scrapers/extract"
)

const listingSelector = ".ProductCard__info"

type Scraper struct{}

func New() *Scraper {
	return &Scraper{}
}

func (s *Scraper) Store() models.Store {
	return models.StoreSelver
}

// Prepare dismisses the consent banner and waits for the product grid.
// Unlike Barbora, a missing grid on Selver reliably means an empty page, so
// extraction is skipped when the wait times out.
func (s *Scraper) Prepare(sess *browser.Session) bool {
	sess.ClickButtonWithText("Nõustun", 2*time.Second)
	if !sess.WaitVisible(listingSelector, 7*time.Second) {
		logger.Warnf(logger.KindExtraction, "selver: product cards did not appear, treating page as empty")
		return false
	}
	if err := sess.ScrollAndSettle(1, 2000, time.Second); err != nil {
		logger.Warnf(logger.KindNavigation, "selver: scroll failed: %v", err)
	}
	return true
}

// Extract pulls raw product records out of a rendered listing snapshot. The
// main price element nests the unit price inside it, so the unit-price text
// is stripped back out of the combined text.
func (s *Scraper) Extract(base *url.URL, doc *goquery.Document) []models.RawProduct {
	var out []models.RawProduct
	doc.Find(listingSelector).Each(func(_ int, card *goquery.Selection) {
		name := extract.First(card, extract.Text(".ProductCard__title"))

		priceEl := card.Find(".ProductPrice").First()
		unitText := strings.TrimSpace(priceEl.Find(".ProductPrice__unit-price").Text())
		priceText := strings.TrimSpace(strings.Replace(priceEl.Text(), unitText, "", 1))

		if name == "" || priceText == "" {
			return
		}

		isSale := priceEl.HasClass("ProductPrice--discount") ||
			card.Find(".ProductPrice__old-price").Length() > 0

		out = append(out, models.RawProduct{
			Name:      name,
			URL:       extract.ResolveURL(base, extract.First(card, extract.Attr("a.ProductCard__link", "href"))),
			Img:       extract.ResolveURL(base, imgSrc(card)),
			PriceText: priceText,
			UnitText:  unitText,
			IsSale:    isSale,
		})
	})
	return out
}

// imgSrc looks for the card image on the enclosing .ProductCard element; the
// info block itself does not contain it.
func imgSrc(card *goquery.Selection) string {
	src, _ := card.Closest(".ProductCard").Find("img").First().Attr("src")
	return src
}
