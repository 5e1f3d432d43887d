package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// loadDocument decodes a single YAML file into a Document without merging.
// Used by PipelineLoader, where each file describes exactly one pipeline and
// there is no layering to perform.
func loadDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &doc, nil
}

// loadLayeredDocument decodes basePath and every overridePath, in order, and
// merges them with dario.cat/mergo: later layers win field-by-field
// (mergo.WithOverride). Catalog entries are merged by name: an overlay entry
// replaces the earlier entry of the same name, a new name is appended, and
// entries the overlay does not mention are kept. Other slices are replaced
// wholesale (mergo's default for non-append merges). For §6's precedence —
// explicit overrides > local overrides file > environment file > base file —
// the caller supplies overridePaths lowest precedence first (environment
// file, then local overrides, then explicit overrides).
func loadLayeredDocument(basePath string, overridePaths ...string) (*Document, error) {
	base, err := loadDocument(basePath)
	if err != nil {
		return nil, err
	}

	for _, p := range overridePaths {
		overlay, err := loadDocument(p)
		if err != nil {
			return nil, err
		}
		entries := append([]EntrySection(nil), base.Catalog.Entries...)
		for _, oe := range overlay.Catalog.Entries {
			i := 0
			for i < len(entries) && entries[i].Name != oe.Name {
				i++
			}
			if i < len(entries) {
				entries[i] = oe
			} else {
				entries = append(entries, oe)
			}
		}
		if err := mergo.Merge(base, overlay, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("config: merging %s over %s: %w", p, basePath, err)
		}
		base.Catalog.Entries = entries
	}
	return base, nil
}
