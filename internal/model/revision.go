// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Revision is an immutable snapshot of a page's editable fields captured
// immediately before the save that produced it. Revisions are never
// mutated; they are deleted only by cascading page deletion or by the
// retention pruning job.
type Revision struct {
	ID        int64        `json:"id"`
	PageID    int64        `json:"page_id"`
	Sections  []Section    `json:"sections"`
	Meta      PageMeta     `json:"meta"`
	Settings  PageSettings `json:"settings"`
	AuthorID  int64        `json:"author_id"`
	CreatedAt time.Time    `json:"created_at"`
}
