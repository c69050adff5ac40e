// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

const mediaColumns = `id, uuid, filename, mime_type, size, width, height,
	has_thumbnail, uploaded_by, created_at`

func scanMedia(row interface{ Scan(...any) error }) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Filename, &m.MimeType, &m.Size,
		&m.Width, &m.Height, &m.HasThumbnail, &m.UploadedBy, &m.CreatedAt)
	return m, err
}

// CreateMediaParams holds the inputs for CreateMedia.
type CreateMediaParams struct {
	UUID         string
	Filename     string
	MimeType     string
	Size         int64
	Width        int64
	Height       int64
	HasThumbnail bool
	UploadedBy   int64
	CreatedAt    time.Time
}

// CreateMedia records an uploaded file and returns it.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO media (uuid, filename, mime_type, size, width, height,
			has_thumbnail, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UUID, arg.Filename, arg.MimeType, arg.Size, arg.Width, arg.Height,
		arg.HasThumbnail, arg.UploadedBy, arg.CreatedAt)
	if err != nil {
		return model.Media{}, fmt.Errorf("creating media: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Media{}, err
	}
	return q.GetMediaByID(ctx, id)
}

// GetMediaByID returns a media record by primary key.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	return scanMedia(row)
}

// GetMediaByUUID returns a media record by its storage UUID.
func (q *Queries) GetMediaByUUID(ctx context.Context, uuid string) (model.Media, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE uuid = ?`, uuid)
	return scanMedia(row)
}

// ListMediaParams holds pagination inputs for ListMedia.
type ListMediaParams struct {
	Limit  int64
	Offset int64
}

// ListMedia returns media records, newest first.
func (q *Queries) ListMedia(ctx context.Context, arg ListMediaParams) ([]model.Media, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media ORDER BY id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CountMedia returns the total number of media records.
func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}

// DeleteMedia removes a media record. The caller is responsible for the
// file on disk.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	return nil
}
