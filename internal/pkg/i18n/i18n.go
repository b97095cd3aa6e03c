package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

//go:embed locales/*/alerts.yaml
var builtin embed.FS

type Translations map[string]string

// Catalog holds alert message templates per locale.
type Catalog struct {
	mu      sync.RWMutex
	locales map[string]Translations
}

// NewCatalog returns a catalog seeded with the built-in English templates.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{locales: make(map[string]Translations)}

	data, err := builtin.ReadFile("locales/en/alerts.yaml")
	if err != nil {
		return nil, err
	}
	if err := c.merge(DefaultLocale, data, "builtin"); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir merges <localePath>/<locale>/alerts.yaml files over the built-in
// templates. Locales without the file are skipped.
func (c *Catalog) LoadDir(localePath string) error {
	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		filePath := filepath.Join(localePath, entry.Name(), "alerts.yaml")

		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}
		if err := c.merge(entry.Name(), data, filePath); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) merge(locale string, data []byte, source string) error {
	var file struct {
		Alerts Translations `yaml:"ALERTS"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", source, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	trans, ok := c.locales[locale]
	if !ok {
		trans = make(Translations)
		c.locales[locale] = trans
	}
	for k, v := range file.Alerts {
		trans[k] = v
	}
	return nil
}

// Translate looks key up in locale, then in the default locale. It returns
// the key itself when neither has it.
func (c *Catalog) Translate(locale, key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if trans, ok := c.locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := c.locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}
