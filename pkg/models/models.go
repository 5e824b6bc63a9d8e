package models

import "errors"

// Store identifies which storefront a URL or product belongs to.
type Store string

const (
	StoreBarbora Store = "Barbora"
	StoreSelver  Store = "Selver"
	StoreRimi    Store = "Rimi"
	StoreCoop    Store = "Coop"
	StoreUnknown Store = "Unknown"
)

// ErrLockHeld means another run currently holds the history lock.
var ErrLockHeld = errors.New("history file is locked by another run")

// SourceConfig is one configured scrape target: a category listing URL on a
// single store, plus the unit prices should be normalized against.
type SourceConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Unit string `json:"unit"` // "L" or "kg"
}

// RawProduct is one product card as extracted from a listing page, before
// any price or unit normalization.
type RawProduct struct {
	Name      string
	URL       string
	Img       string
	PriceText string
	UnitText  string
	IsSale    bool
}

// PriceEntry is one observation in a product's price log. Entries are only
// appended when the price differs from the previous entry.
type PriceEntry struct {
	T string  `json:"t"`
	P float64 `json:"p"`
}

// ProductRecord is one tracked product, keyed by its scraped display name.
// The entries log is append-only; every other field is a latest-run snapshot
// overwritten on each observation.
type ProductRecord struct {
	Category     string       `json:"category"`
	Entries      []PriceEntry `json:"entries"`
	LatestPrice  float64      `json:"latest_price"`
	PricePerUnit float64      `json:"price_per_unit"`
	UnitLabel    string       `json:"unit_label"`
	URL          string       `json:"url"`
	Img          string       `json:"img"`
	Store        string       `json:"store"`
	IsSale       bool         `json:"is_sale"`
}
