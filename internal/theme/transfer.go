// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"encoding/json"
	"fmt"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/util"
)

// requiredKeys are the top-level keys an imported theme must carry.
// A payload missing any of them is rejected before touching the active
// theme.
var requiredKeys = []string{
	"name", "layout", "typography", "colors", "effects", "seo",
}

// ExportFilename returns the canonical download name for a theme export.
func ExportFilename(t model.Theme) string {
	slug := util.Slugify(t.Name)
	if slug == "" {
		slug = "theme"
	}
	return "theme-" + slug + ".json"
}

// Export serializes the full theme object for download.
func Export(t model.Theme) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("exporting theme: %w", err)
	}
	return data, nil
}

// Import parses and structurally validates an exported theme. The check
// is shape-level only: every required top-level key must be present.
func Import(data []byte) (model.Theme, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Theme{}, fmt.Errorf("importing theme: invalid JSON: %w", err)
	}

	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			return model.Theme{}, fmt.Errorf("importing theme: missing required key %q", key)
		}
	}

	var t model.Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return model.Theme{}, fmt.Errorf("importing theme: %w", err)
	}
	if t.Name == "" {
		return model.Theme{}, fmt.Errorf("importing theme: name must not be empty")
	}
	return t, nil
}
