package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryPage     = "page"
	EventCategoryUser     = "user"
	EventCategoryTheme    = "theme"
	EventCategoryResearch = "research"
	EventCategoryContent  = "content"
	EventCategoryMedia    = "media"
	EventCategoryConfig   = "config"
	EventCategorySystem   = "system"
)

// Event represents an audit log entry. The events table is append-only
// and is the sole durable observability mechanism of the system.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string // JSON string
	CreatedAt time.Time
}
