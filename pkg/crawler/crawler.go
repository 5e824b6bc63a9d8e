// Package crawler drives pagination across every configured source: it
// builds page URLs per store convention, fetches rendered pages through the
// browser session, and feeds raw records into the history merge.
package crawler

import (
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricetrail/pkg/browser"
	"pricetrail/pkg/history"
	"pricetrail/pkg/logger"
	"pricetrail/pkg/models"
	"pricetrail/pkg/runlog"
	"pricetrail/pkg/scrapers/barbora"
	"pricetrail/pkg/scrapers/rimi"
	"pricetrail/pkg/scrapers/selver"
	"pricetrail/pkg/stores"
)

// Scraper is one store's page scraper. Prepare runs against the live page
// (waits, consent clicks, scrolling) and reports whether extraction is worth
// attempting; Extract works on a parsed snapshot so it can be tested without
// a browser.
type Scraper interface {
	Store() models.Store
	Prepare(sess *browser.Session) bool
	Extract(base *url.URL, doc *goquery.Document) []models.RawProduct
}

// Settings tunes the pagination driver. Zero values use the defaults below.
type Settings struct {
	MaxPages       int    // hard cap per category
	MinPageSize    int    // fewer raw products than this means "last partial page"
	SingleCategory string // composite key; restricts the run to one source
}

const (
	defaultMaxPages    = 50
	defaultMinPageSize = 10
)

// FetchFunc loads one listing page and returns its raw products. Tests
// replace it with a stub; the real implementation drives the browser.
type FetchFunc func(pageURL string, s Scraper) ([]models.RawProduct, error)

type Crawler struct {
	doc      *history.Document
	ledger   *runlog.Log
	settings Settings
	scrapers map[models.Store]Scraper

	// Fetch may be replaced before Run for testing.
	Fetch FetchFunc
}

// New builds a crawler over an open browser session. ledger may be nil, in
// which case run outcomes are not recorded and the empty-category health
// check is skipped.
func New(sess *browser.Session, doc *history.Document, ledger *runlog.Log, settings Settings) *Crawler {
	if settings.MaxPages == 0 {
		settings.MaxPages = defaultMaxPages
	}
	if settings.MinPageSize == 0 {
		settings.MinPageSize = defaultMinPageSize
	}
	c := &Crawler{
		doc:      doc,
		ledger:   ledger,
		settings: settings,
		scrapers: map[models.Store]Scraper{
			models.StoreBarbora: barbora.New(),
			models.StoreSelver:  selver.New(),
			models.StoreRimi:    rimi.New(),
		},
	}
	c.Fetch = browserFetch(sess)
	return c
}

func browserFetch(sess *browser.Session) FetchFunc {
	return func(pageURL string, s Scraper) ([]models.RawProduct, error) {
		if err := sess.Navigate(pageURL); err != nil {
			return nil, err
		}
		if !s.Prepare(sess) {
			return nil, nil
		}
		html, err := sess.HTML()
		if err != nil {
			return nil, err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, err
		}
		base, _ := url.Parse(pageURL)
		return s.Extract(base, doc), nil
	}
}

// PageURL builds the listing URL for a page number. Page 1 is always the
// bare configured URL. Barbora and Selver take a page query parameter; Rimi
// replaces the whole query string with its own pagination parameters.
func PageURL(store models.Store, baseURL string, page int) string {
	if page <= 1 {
		return baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	if store == models.StoreRimi {
		q := url.Values{}
		q.Set("currentPage", strconv.Itoa(page))
		q.Set("pageSize", "40")
		u.RawQuery = q.Encode()
		u.Fragment = ""
		return u.String()
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Run scrapes every source sequentially. now is the run timestamp stamped
// onto new history entries. Failures are isolated per category.
func (c *Crawler) Run(sources []models.SourceConfig, now string) {
	if c.settings.SingleCategory != "" {
		var matched []models.SourceConfig
		for _, src := range sources {
			if stores.CategoryKey(src.Name, src.URL) == c.settings.SingleCategory {
				matched = append(matched, src)
			}
		}
		if len(matched) == 0 {
			logger.Warnf(logger.KindSingleCategory, "category key %q not found in config, nothing to scrape", c.settings.SingleCategory)
			return
		}
		log.Printf("Single-category mode: only scraping %q", c.settings.SingleCategory)
		sources = matched
	}

	for _, src := range sources {
		c.scrapeCategory(src, now)
	}
}

func (c *Crawler) scrapeCategory(src models.SourceConfig, now string) {
	store := stores.Classify(src.URL)
	key := stores.CategoryKey(src.Name, src.URL)

	scraper, ok := c.scrapers[store]
	if !ok {
		logger.Warnf(logger.KindConfig, "no scraper for store %s (source %q), skipping", store, src.Name)
		return
	}

	log.Printf("--- Scanning %s (%s) on %s ---", src.Name, src.Unit, store)

	started := time.Now()
	seen := map[string]struct{}{}
	var pages, totalFound, totalMerged, totalSales int

	for page := 1; ; page++ {
		pageURL := PageURL(store, src.URL, page)
		log.Printf("  page %d -> %s", page, pageURL)

		raw, err := c.Fetch(pageURL, scraper)
		if err != nil {
			logger.Warnf(logger.KindNavigation, "%s page %d: %v, stopping category", key, page, err)
			break
		}
		pages++

		if len(raw) == 0 {
			log.Printf("  page empty, stopping category")
			break
		}
		totalFound += len(raw)

		// A page whose names we have all seen before means the site looped
		// back instead of erroring on overflow.
		newNames := false
		for _, p := range raw {
			if _, ok := seen[p.Name]; !ok {
				newNames = true
				break
			}
		}
		if !newNames {
			log.Printf("  no new products, stopping category")
			break
		}
		for _, p := range raw {
			seen[p.Name] = struct{}{}
		}

		var merged, sales int
		for _, p := range raw {
			res := c.doc.Merge(p, src, now)
			if !res.Merged {
				continue
			}
			merged++
			if p.IsSale {
				sales++
			}
			if res.PriceChanged {
				marker := ""
				if p.IsSale {
					marker = " [SALE]"
				}
				log.Printf("  price change %s: %.2f -> %.2f%s", truncate(p.Name, 50), res.OldPrice, res.Price, marker)
			}
		}
		totalMerged += merged
		totalSales += sales

		// Full pages tend to repeat the same count; collapse those lines.
		if sales > 0 {
			logger.Dedup("  %d products (%d on sale)", merged, sales)
		} else {
			logger.Dedup("  %d products", merged)
		}

		if len(raw) < c.settings.MinPageSize || merged == 0 {
			break
		}
		if page >= c.settings.MaxPages {
			log.Printf("  safety limit reached (%d pages)", c.settings.MaxPages)
			break
		}
	}

	if c.ledger != nil {
		if totalFound == 0 {
			if last, ok := c.ledger.LastFound(key); ok && last > 0 {
				logger.Warnf(logger.KindCategoryEmpty, "category %s previously yielded %d products, now zero; the store may have changed its markup", key, last)
			}
		}
		err := c.ledger.Record(runlog.Entry{
			CategoryKey: key,
			Store:       string(store),
			Pages:       pages,
			Found:       totalFound,
			Merged:      totalMerged,
			Sales:       totalSales,
			StartedAt:   started,
			Duration:    time.Since(started),
		})
		if err != nil {
			logger.Warnf(logger.KindRunLog, "record run for %s: %v", key, err)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
