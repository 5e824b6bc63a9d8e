package config

import (
	"os"
	"path/filepath"
	"testing"

	"pricetrail/pkg/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCanonicalList(t *testing.T) {
	path := writeConfig(t, `[
		{"name": "Beer", "url": "https://barbora.ee/olu", "unit": "L"},
		{"name": "Pasta", "url": "https://rimi.ee/pasta"}
	]`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0] != (models.SourceConfig{Name: "Beer", URL: "https://barbora.ee/olu", Unit: "L"}) {
		t.Errorf("unexpected first source: %+v", sources[0])
	}
	if sources[1].Unit != "L" {
		t.Errorf("missing unit should default to L, got %q", sources[1].Unit)
	}
}

func TestLoadSourcesWrapper(t *testing.T) {
	path := writeConfig(t, `{
		"productCategories": ["ignored"],
		"sources": [{"name": "Wine", "url": "https://selver.ee/vein", "unit": "L"}]
	}`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "Wine" {
		t.Fatalf("unexpected sources: %+v", sources)
	}
}

func TestLoadLegacyMapOfStrings(t *testing.T) {
	path := writeConfig(t, `{
		"Vodka": "https://rimi.ee/vodka",
		"Beer": "https://barbora.ee/olu"
	}`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	// Legacy maps come back sorted by name.
	if sources[0].Name != "Beer" || sources[1].Name != "Vodka" {
		t.Errorf("unexpected order: %q, %q", sources[0].Name, sources[1].Name)
	}
	if sources[0].Unit != "L" {
		t.Errorf("unit should default to L, got %q", sources[0].Unit)
	}
}

func TestLoadLegacyMapOfObjects(t *testing.T) {
	path := writeConfig(t, `{
		"Flour": {"url": "https://selver.ee/jahu", "unit": "kg"},
		"Juice": {"url": "https://rimi.ee/mahl"}
	}`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sources[0].Unit != "kg" {
		t.Errorf("explicit unit lost: %+v", sources[0])
	}
	if sources[1].Unit != "L" {
		t.Errorf("missing unit should default to L: %+v", sources[1])
	}
}

func TestLoadMissingURL(t *testing.T) {
	for _, content := range []string{
		`[{"name": "Beer", "unit": "L"}]`,
		`{"Beer": {"unit": "L"}}`,
	} {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("Load(%s) should fail on missing url", content)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load of a missing file should return an error")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, `{not json`)
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed JSON should return an error")
	}
}
