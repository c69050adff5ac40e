// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package builder implements the in-memory section list editor backing
// the page builder. All operations are local and synchronous; persistence
// is the caller's concern.
package builder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcmslabs/rcms/internal/model"
)

// ErrSectionNotFound is returned by Update when the target id is unknown.
// Delete on an unknown id is deliberately a no-op instead.
var ErrSectionNotFound = errors.New("section not found")

// ErrNotPermutation is returned by Reorder when the supplied id list is
// not a permutation of the current section ids.
var ErrNotPermutation = errors.New("reorder ids are not a permutation of existing sections")

// Editor maintains the ordered section list of a single page draft and
// mediates all structural edits. It is not safe for concurrent use.
type Editor struct {
	sections []model.Section
}

// New creates an editor over a copy of the given sections, so failed
// persistence can roll back to the caller's original slice.
func New(sections []model.Section) *Editor {
	cp := make([]model.Section, len(sections))
	copy(cp, sections)
	return &Editor{sections: cp}
}

// Sections returns the current ordered list.
func (e *Editor) Sections() []model.Section {
	return e.sections
}

// Len returns the number of sections.
func (e *Editor) Len() int {
	return len(e.sections)
}

// Add appends a new section of the given type with type-specific default
// content and settings, and returns its id so the caller can focus it.
func (e *Editor) Add(t model.SectionType) string {
	s := model.Section{
		ID:        uuid.NewString(),
		Type:      t,
		Content:   model.DefaultContent(t),
		Settings:  model.DefaultSettings(t),
		IsVisible: true,
	}
	e.sections = append(e.sections, s)
	return s.ID
}

// Patch describes a partial update to a section. Content and Settings are
// merged shallowly at the top level of their JSON objects; list-valued
// fields inside them are replaced wholesale, never deep-merged. Type and
// id are immutable and therefore absent here.
type Patch struct {
	Content   json.RawMessage `json:"content,omitempty"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	IsVisible *bool           `json:"is_visible,omitempty"`
}

// Update applies a partial update to the section with the given id.
func (e *Editor) Update(id string, patch Patch) error {
	idx := e.index(id)
	if idx < 0 {
		return fmt.Errorf("updating section %s: %w", id, ErrSectionNotFound)
	}
	s := &e.sections[idx]

	if len(patch.Content) > 0 {
		merged, err := mergeContent(s.Type, s.Content, patch.Content)
		if err != nil {
			return fmt.Errorf("updating section %s: %w", id, err)
		}
		s.Content = merged
	}
	if len(patch.Settings) > 0 {
		merged, err := mergeSettings(s.Settings, patch.Settings)
		if err != nil {
			return fmt.Errorf("updating section %s: %w", id, err)
		}
		s.Settings = merged
	}
	if patch.IsVisible != nil {
		s.IsVisible = *patch.IsVisible
	}
	return nil
}

// Delete removes the section with the given id. Unknown ids are a no-op;
// order is positional so nothing needs renumbering.
func (e *Editor) Delete(id string) {
	idx := e.index(id)
	if idx < 0 {
		return
	}
	e.sections = append(e.sections[:idx], e.sections[idx+1:]...)
}

// Reorder replaces the list order with the supplied id sequence. The ids
// must be a permutation of the existing ones; drag-and-drop and adjacent
// swaps both reduce to this call.
func (e *Editor) Reorder(ids []string) error {
	if len(ids) != len(e.sections) {
		return ErrNotPermutation
	}

	byID := make(map[string]model.Section, len(e.sections))
	for _, s := range e.sections {
		byID[s.ID] = s
	}

	next := make([]model.Section, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return ErrNotPermutation
		}
		delete(byID, id) // rejects duplicate ids
		next = append(next, s)
	}

	e.sections = next
	return nil
}

// MoveUp swaps the section with its previous neighbor. No-op at the top
// of the list or for unknown ids.
func (e *Editor) MoveUp(id string) {
	idx := e.index(id)
	if idx <= 0 {
		return
	}
	e.sections[idx-1], e.sections[idx] = e.sections[idx], e.sections[idx-1]
}

// MoveDown swaps the section with its next neighbor. No-op at the bottom
// of the list or for unknown ids.
func (e *Editor) MoveDown(id string) {
	idx := e.index(id)
	if idx < 0 || idx >= len(e.sections)-1 {
		return
	}
	e.sections[idx], e.sections[idx+1] = e.sections[idx+1], e.sections[idx]
}

// index returns the position of the section with the given id, or -1.
func (e *Editor) index(id string) int {
	for i := range e.sections {
		if e.sections[i].ID == id {
			return i
		}
	}
	return -1
}

// mergeContent overlays the patch keys onto the existing content at the
// top level of the JSON object and re-decodes for the section's type.
func mergeContent(t model.SectionType, existing model.SectionContent, patch json.RawMessage) (model.SectionContent, error) {
	base, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("marshaling existing content: %w", err)
	}
	merged, err := shallowMerge(base, patch)
	if err != nil {
		return nil, err
	}
	return model.DecodeContent(t, merged)
}

// mergeSettings overlays the patch keys onto the existing settings.
func mergeSettings(existing model.SectionSettings, patch json.RawMessage) (model.SectionSettings, error) {
	base, err := json.Marshal(existing)
	if err != nil {
		return model.SectionSettings{}, fmt.Errorf("marshaling existing settings: %w", err)
	}
	merged, err := shallowMerge(base, patch)
	if err != nil {
		return model.SectionSettings{}, err
	}

	var out model.SectionSettings
	if err := json.Unmarshal(merged, &out); err != nil {
		return model.SectionSettings{}, err
	}
	return out, nil
}

// shallowMerge merges two JSON objects one level deep. Values from patch
// win; arrays and nested objects are replaced, not merged.
func shallowMerge(base, patch json.RawMessage) (json.RawMessage, error) {
	var baseMap map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseMap); err != nil {
		return nil, fmt.Errorf("merging: invalid base object: %w", err)
	}
	var patchMap map[string]json.RawMessage
	if err := json.Unmarshal(patch, &patchMap); err != nil {
		return nil, fmt.Errorf("merging: invalid patch object: %w", err)
	}
	if baseMap == nil {
		baseMap = make(map[string]json.RawMessage)
	}
	for k, v := range patchMap {
		baseMap[k] = v
	}
	return json.Marshal(baseMap)
}
