// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// PageTemplate is a reusable section-list blueprint. Creating a page
// from a template copies its sections (with fresh section ids) and
// settings into the new draft.
type PageTemplate struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Sections    []Section    `json:"sections"`
	Settings    PageSettings `json:"settings"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
