// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme holds the site customization settings: preset themes,
// category-scoped field updates, and JSON export/import with structural
// validation.
package theme

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rcmslabs/rcms/internal/model"
)

// Categories addressable by SetField, matching the theme's top-level keys.
var Categories = []string{
	"layout", "typography", "colors", "effects", "advanced", "seo",
	"performance", "accessibility", "internationalization", "security",
}

// Manager holds the active site theme. Pages may carry their own theme
// override; the manager only owns the site-wide default. Persistence of
// the active theme is the caller's concern.
type Manager struct {
	mu     sync.RWMutex
	active model.Theme
}

// NewManager creates a manager seeded with the given theme.
func NewManager(active model.Theme) *Manager {
	return &Manager{active: active}
}

// Active returns a copy of the current site theme.
func (m *Manager) Active() model.Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Clone(m.active)
}

// Set replaces the site theme atomically.
func (m *Manager) Set(t model.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = Clone(t)
}

// ApplyPreset replaces the whole site theme with a deep copy of the named
// preset, as a shortcut for field-by-field editing.
func (m *Manager) ApplyPreset(name string) error {
	p, ok := PresetByName(name)
	if !ok {
		return fmt.Errorf("unknown theme preset %q", name)
	}
	m.Set(p)
	return nil
}

// SetField updates one field within one category of the site theme.
// Category and field names follow the JSON keys of model.Theme.
func (m *Manager) SetField(category, field string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := SetField(m.active, category, field, value)
	if err != nil {
		return err
	}
	m.active = next
	return nil
}

// SetField returns a copy of t with one field in one category changed.
// It goes through the JSON form so the addressing matches what editors
// and the export file use.
func SetField(t model.Theme, category, field string, value any) (model.Theme, error) {
	if !validCategory(category) {
		return model.Theme{}, fmt.Errorf("unknown theme category %q", category)
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return model.Theme{}, fmt.Errorf("marshaling theme: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Theme{}, err
	}

	var cat map[string]any
	if catRaw, ok := doc[category]; ok {
		if err := json.Unmarshal(catRaw, &cat); err != nil {
			return model.Theme{}, fmt.Errorf("decoding category %q: %w", category, err)
		}
	}
	if cat == nil {
		cat = make(map[string]any)
	}
	cat[field] = value

	catRaw, err := json.Marshal(cat)
	if err != nil {
		return model.Theme{}, err
	}
	doc[category] = catRaw

	merged, err := json.Marshal(doc)
	if err != nil {
		return model.Theme{}, err
	}

	var out model.Theme
	if err := json.Unmarshal(merged, &out); err != nil {
		return model.Theme{}, fmt.Errorf("applying %s.%s: %w", category, field, err)
	}
	return out, nil
}

// Clone returns a deep copy of a theme.
func Clone(t model.Theme) model.Theme {
	if t.Internationalization.Languages != nil {
		langs := make([]string, len(t.Internationalization.Languages))
		copy(langs, t.Internationalization.Languages)
		t.Internationalization.Languages = langs
	}
	return t
}

func validCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}
