// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/theme"
)

// ThemeService owns the site-wide theme: the in-memory manager for fast
// reads plus persistence of the active theme in the config table.
type ThemeService struct {
	queries *store.Queries
	manager *theme.Manager
	events  *EventService
}

// NewThemeService creates a ThemeService, loading the persisted site
// theme or falling back to the default preset.
func NewThemeService(ctx context.Context, db *sql.DB, events *EventService) (*ThemeService, error) {
	queries := store.New(db)

	active := theme.DefaultPreset()
	stored, err := queries.GetConfig(ctx, store.ConfigKeySiteTheme)
	if err != nil {
		return nil, fmt.Errorf("loading site theme: %w", err)
	}
	if stored != "" {
		var t model.Theme
		if err := json.Unmarshal([]byte(stored), &t); err != nil {
			return nil, fmt.Errorf("decoding stored site theme: %w", err)
		}
		active = t
	}

	return &ThemeService{
		queries: queries,
		manager: theme.NewManager(active),
		events:  events,
	}, nil
}

// Active returns the current site theme.
func (s *ThemeService) Active() model.Theme {
	return s.manager.Active()
}

// Set replaces the site theme and persists it.
func (s *ThemeService) Set(ctx context.Context, t model.Theme, actorID int64) error {
	if t.Name == "" {
		return newValidationError("name", "must not be empty")
	}

	if err := s.persist(ctx, t); err != nil {
		return err
	}
	s.manager.Set(t)

	_ = s.events.LogThemeEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Site theme updated: %s", t.Name), &actorID, nil)
	return nil
}

// Presets returns the available preset names.
func (s *ThemeService) Presets() []string {
	names := make([]string, len(theme.Presets))
	for i, p := range theme.Presets {
		names[i] = p.Name
	}
	return names
}

// ApplyPreset replaces the site theme with a deep copy of the named
// preset and persists it.
func (s *ThemeService) ApplyPreset(ctx context.Context, name string, actorID int64) (model.Theme, error) {
	p, ok := theme.PresetByName(name)
	if !ok {
		return model.Theme{}, newNotFoundError("theme preset", name)
	}

	if err := s.persist(ctx, p); err != nil {
		return model.Theme{}, err
	}
	s.manager.Set(p)

	_ = s.events.LogThemeEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Theme preset applied: %s", name), &actorID, nil)
	return s.manager.Active(), nil
}

// SetField updates one field within one category of the site theme and
// persists the result.
func (s *ThemeService) SetField(ctx context.Context, category, field string, value any, actorID int64) (model.Theme, error) {
	next, err := theme.SetField(s.manager.Active(), category, field, value)
	if err != nil {
		return model.Theme{}, newValidationError("category", err.Error())
	}

	if err := s.persist(ctx, next); err != nil {
		return model.Theme{}, err
	}
	s.manager.Set(next)

	_ = s.events.LogThemeEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Theme field updated: %s.%s", category, field), &actorID, nil)
	return s.manager.Active(), nil
}

// Export serializes the site theme for download and returns the payload
// with its canonical filename.
func (s *ThemeService) Export() ([]byte, string, error) {
	t := s.manager.Active()
	data, err := theme.Export(t)
	if err != nil {
		return nil, "", err
	}
	return data, theme.ExportFilename(t), nil
}

// Import validates an exported theme payload, activates and persists
// it. Structurally invalid payloads are rejected without touching the
// active theme.
func (s *ThemeService) Import(ctx context.Context, data []byte, actorID int64) (model.Theme, error) {
	t, err := theme.Import(data)
	if err != nil {
		_ = s.events.LogThemeEvent(ctx, model.EventLevelWarning,
			"Theme import rejected", &actorID, map[string]any{"reason": err.Error()})
		return model.Theme{}, newValidationError("theme", err.Error())
	}

	if err := s.persist(ctx, t); err != nil {
		return model.Theme{}, err
	}
	s.manager.Set(t)

	_ = s.events.LogThemeEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Theme imported: %s", t.Name), &actorID, nil)
	return s.manager.Active(), nil
}

func (s *ThemeService) persist(ctx context.Context, t model.Theme) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding site theme: %w", err)
	}
	return s.queries.SetConfig(ctx, store.ConfigKeySiteTheme, string(data))
}
