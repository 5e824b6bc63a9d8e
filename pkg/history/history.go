// Package history owns the persisted price-history document: a single JSON
// file holding run metadata and every tracked product. The document is read
// fully at run start, mutated in memory, and rewritten atomically at the end.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pricetrail/pkg/logger"
	"pricetrail/pkg/models"
	"pricetrail/pkg/parse"
	"pricetrail/pkg/stores"
)

// Meta carries run-level metadata persisted alongside the products.
type Meta struct {
	GeneratedAt string `json:"generated_at"`
}

// Document is the top-level persisted structure.
type Document struct {
	Meta     Meta                             `json:"meta"`
	Products map[string]*models.ProductRecord `json:"products"`
}

// NewDocument returns an empty history document.
func NewDocument() *Document {
	return &Document{Products: map[string]*models.ProductRecord{}}
}

// Load reads the history file at path. An absent file yields an empty
// document. A corrupt file also yields an empty document, with a recorded
// warning: the previous behavior of silently starting over is kept, but made
// observable.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warnf(logger.KindHistory, "history file %s is corrupt, starting empty: %v", path, err)
		return NewDocument(), nil
	}
	if doc.Products == nil {
		doc.Products = map[string]*models.ProductRecord{}
	}
	return &doc, nil
}

// Save rewrites the whole document. The write goes to a temp file in the
// same directory followed by a rename, so a crash mid-write leaves the
// previous file intact.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// MergeResult reports what Merge did with one raw record.
type MergeResult struct {
	Merged       bool
	PriceChanged bool
	OldPrice     float64
	Price        float64
}

// Merge normalizes one raw scraped record and folds it into the document.
// Records without a usable name or price are skipped. A history entry is
// appended only when the price differs from the last logged entry; the
// snapshot fields are overwritten unconditionally.
func (d *Document) Merge(raw models.RawProduct, source models.SourceConfig, now string) MergeResult {
	if raw.Name == "" || raw.Name == "Unknown" {
		return MergeResult{}
	}

	price := parse.Price(raw.PriceText)
	if price == 0 {
		return MergeResult{}
	}

	ppu := parse.PricePerUnit(raw.UnitText)
	if ppu == 0 {
		if size, ok := parse.UnitValue(raw.Name, source.Unit); ok && size > 0 {
			ppu = price / size
		}
	}

	key := stores.CategoryKey(source.Name, source.URL)

	prod, exists := d.Products[raw.Name]
	if !exists {
		prod = &models.ProductRecord{Category: key}
		d.Products[raw.Name] = prod
	}

	res := MergeResult{Merged: true, Price: price}
	if n := len(prod.Entries); n == 0 {
		prod.Entries = append(prod.Entries, models.PriceEntry{T: now, P: price})
	} else if prod.Entries[n-1].P != price {
		res.PriceChanged = true
		res.OldPrice = prod.Entries[n-1].P
		prod.Entries = append(prod.Entries, models.PriceEntry{T: now, P: price})
	}

	prod.Category = key
	prod.LatestPrice = price
	prod.PricePerUnit = ppu
	prod.UnitLabel = source.Unit
	prod.URL = raw.URL
	prod.Img = raw.Img
	prod.Store = string(stores.Classify(source.URL))
	prod.IsSale = raw.IsSale
	return res
}

// NamedProduct pairs a product record with its display-name key for
// consumers that need a flat list.
type NamedProduct struct {
	Name string
	*models.ProductRecord
}

// Active is the collaborator-facing projection of the document: products
// whose category key matches a source in the current config. Records left
// behind by renamed or removed sources stay in the raw map but are excluded
// here.
func (d *Document) Active(sources []models.SourceConfig) []NamedProduct {
	valid := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		valid[stores.CategoryKey(src.Name, src.URL)] = struct{}{}
	}

	var out []NamedProduct
	for name, prod := range d.Products {
		if _, ok := valid[prod.Category]; ok {
			out = append(out, NamedProduct{Name: name, ProductRecord: prod})
		}
	}
	return out
}
