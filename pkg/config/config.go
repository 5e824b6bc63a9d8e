// Package config loads the category/source configuration. Several historical
// encodings of the same document are still in the wild; all of them normalize
// to a flat list of sources.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"pricetrail/pkg/models"
)

const defaultUnit = "L"

// Load reads the source configuration at path and normalizes it. Accepted
// shapes, oldest first:
//
//	{"Beer": "https://...", ...}                          name -> url
//	{"Beer": {"url": "https://...", "unit": "L"}, ...}    name -> object
//	[{"name": "Beer", "url": "https://...", "unit": "L"}] canonical list
//	{"sources": [...], ...}                               wrapper around the list
//
// A missing unit defaults to "L". A source without a url is a configuration
// error and is returned as such; callers decide whether to degrade to an
// empty run.
func Load(path string) ([]models.SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch v := root.(type) {
	case []any:
		return fromList(v)
	case map[string]any:
		if sources, ok := v["sources"]; ok {
			list, ok := sources.([]any)
			if !ok {
				return nil, fmt.Errorf("parse config: \"sources\" is not a list")
			}
			return fromList(list)
		}
		return fromLegacyMap(v)
	default:
		return nil, fmt.Errorf("parse config: unsupported top-level type %T", root)
	}
}

func fromList(list []any) ([]models.SourceConfig, error) {
	out := make([]models.SourceConfig, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config entry %d: expected object, got %T", i, item)
		}
		name, _ := entry["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("config entry %d: missing name", i)
		}
		url, _ := entry["url"].(string)
		if url == "" {
			return nil, fmt.Errorf("config source %q: missing url", name)
		}
		unit, _ := entry["unit"].(string)
		if unit == "" {
			unit = defaultUnit
		}
		out = append(out, models.SourceConfig{Name: name, URL: url, Unit: unit})
	}
	return out, nil
}

// fromLegacyMap handles the two oldest shapes, where the document is a map
// keyed by category name. Output is sorted by name since Go map iteration
// order would otherwise reshuffle the scrape order between runs.
func fromLegacyMap(m map[string]any) ([]models.SourceConfig, error) {
	out := make([]models.SourceConfig, 0, len(m))
	for name, info := range m {
		switch v := info.(type) {
		case string:
			out = append(out, models.SourceConfig{Name: name, URL: v, Unit: defaultUnit})
		case map[string]any:
			url, _ := v["url"].(string)
			if url == "" {
				return nil, fmt.Errorf("config source %q: missing url", name)
			}
			unit, _ := v["unit"].(string)
			if unit == "" {
				unit = defaultUnit
			}
			out = append(out, models.SourceConfig{Name: name, URL: url, Unit: unit})
		default:
			return nil, fmt.Errorf("config source %q: unsupported value type %T", name, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
