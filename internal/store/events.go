package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

// CreateEventParams holds the inputs for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent appends an entry to the audit log.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID: id, Level: arg.Level, Category: arg.Category, Message: arg.Message,
		UserID: arg.UserID, Metadata: arg.Metadata, CreatedAt: arg.CreatedAt,
	}, nil
}

// ListEventsParams holds filter and pagination inputs for ListEvents.
// Empty Level/Category match everything.
type ListEventsParams struct {
	Level    string
	Category string
	Limit    int64
	Offset   int64
}

// ListEvents returns audit entries, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, user_id, metadata, created_at
		FROM events
		WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)
		ORDER BY id DESC LIMIT ? OFFSET ?`,
		arg.Level, arg.Level, arg.Category, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message,
			&e.UserID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents returns the number of events matching the filters.
func (q *Queries) CountEvents(ctx context.Context, level, category string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events
		WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)`,
		level, level, category, category).Scan(&n)
	return n, err
}
