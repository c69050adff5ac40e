// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// BlogPost is a news/blog entry with a markdown body.
type BlogPost struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt,omitempty"`
	Body        string       `json:"body"` // markdown
	Status      string       `json:"status"`
	AuthorID    int64        `json:"author_id"`
	PublishedAt sql.NullTime `json:"published_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Product is a marketing product page entry.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Tagline     string    `json:"tagline,omitempty"`
	Description string    `json:"description,omitempty"` // markdown
	ImageURL    string    `json:"image_url,omitempty"`
	LinkURL     string    `json:"link_url,omitempty"`
	Published   bool      `json:"published"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
