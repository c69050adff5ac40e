// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Research project statuses
const (
	ProjectStatusProposed  = "proposed"
	ProjectStatusActive    = "active"
	ProjectStatusPaused    = "paused"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// ValidProjectStatuses contains all valid research project statuses.
var ValidProjectStatuses = []string{
	ProjectStatusProposed, ProjectStatusActive, ProjectStatusPaused,
	ProjectStatusCompleted, ProjectStatusArchived,
}

// ResearchProject represents a tracked research effort with its own
// public page, publications and milestones.
type ResearchProject struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Summary     string       `json:"summary,omitempty"`
	Body        string       `json:"body,omitempty"` // markdown
	Status      string       `json:"status"`
	LeadID      int64        `json:"lead_id"`
	Tags        []string     `json:"tags,omitempty"`
	StartedAt   sql.NullTime `json:"started_at,omitempty"`
	CompletedAt sql.NullTime `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Publication is a paper or article attached to a research project.
type Publication struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	Venue     string    `json:"venue,omitempty"`
	Year      int64     `json:"year"`
	DOI       string    `json:"doi,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Milestone is a dated goal within a research project.
type Milestone struct {
	ID          int64        `json:"id"`
	ProjectID   int64        `json:"project_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueAt       sql.NullTime `json:"due_at,omitempty"`
	Done        bool         `json:"done"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
