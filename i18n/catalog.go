package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog maps source templates to localized text for one language.
type Catalog map[string]string

// LoadCatalogDir reads every *.yaml / *.yml file in dir as a catalog keyed by
// the file's base name interpreted as a language code (e.g. pl.yaml -> "pl").
// Files whose names do not parse as language tags are rejected.
func LoadCatalogDir(dir string) (map[string]Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	catalogs := make(map[string]Catalog)
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		code, err := NormalizeLanguage(strings.TrimSuffix(name, ext))
		if err != nil {
			return nil, fmt.Errorf("catalog file %s: %w", name, err)
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		var cat Catalog
		if err := yaml.Unmarshal(raw, &cat); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		catalogs[code] = cat
	}
	return catalogs, nil
}

// NormalizeLanguage parses a language code and returns its canonical base
// form ("EN" -> "en", "pl-PL" -> "pl").
func NormalizeLanguage(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
