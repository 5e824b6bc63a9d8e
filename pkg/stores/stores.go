// Package stores maps storefront URLs to store identities and builds the
// composite category key that joins config entries to persisted products.
package stores

import (
	"fmt"
	"strings"

	"pricetrail/pkg/models"
)

// Classify returns the store a URL belongs to based on a case-insensitive
// substring check. Precedence follows the order below; in practice the
// substrings are mutually exclusive.
func Classify(url string) models.Store {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "barbora"):
		return models.StoreBarbora
	case strings.Contains(lower, "selver"):
		return models.StoreSelver
	case strings.Contains(lower, "rimi"):
		return models.StoreRimi
	case strings.Contains(lower, "coop"):
		return models.StoreCoop
	default:
		return models.StoreUnknown
	}
}

// CategoryKey builds the "{store}:{name}" identity shared by config entries
// and persisted product categories. It does not depend on the URL path, so a
// source keeps its history when its URL is edited within the same store.
func CategoryKey(name, url string) string {
	return fmt.Sprintf("%s:%s", Classify(url), name)
}
