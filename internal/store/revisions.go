// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

const revisionColumns = `id, page_id, sections, meta, settings, author_id, created_at`

func scanRevision(row interface{ Scan(...any) error }) (model.Revision, error) {
	var (
		r                        model.Revision
		sections, meta, settings string
	)
	err := row.Scan(&r.ID, &r.PageID, &sections, &meta, &settings,
		&r.AuthorID, &r.CreatedAt)
	if err != nil {
		return model.Revision{}, err
	}

	if err := unmarshalJSON(sections, &r.Sections); err != nil {
		return model.Revision{}, fmt.Errorf("revision %d sections: %w", r.ID, err)
	}
	if err := unmarshalJSON(meta, &r.Meta); err != nil {
		return model.Revision{}, fmt.Errorf("revision %d meta: %w", r.ID, err)
	}
	if err := unmarshalJSON(settings, &r.Settings); err != nil {
		return model.Revision{}, fmt.Errorf("revision %d settings: %w", r.ID, err)
	}
	if r.Sections == nil {
		r.Sections = []model.Section{}
	}
	return r, nil
}

// CreateRevisionParams holds the inputs for CreateRevision.
type CreateRevisionParams struct {
	PageID    int64
	Sections  []model.Section
	Meta      model.PageMeta
	Settings  model.PageSettings
	AuthorID  int64
	CreatedAt time.Time
}

// CreateRevision appends an immutable snapshot to a page's history.
func (q *Queries) CreateRevision(ctx context.Context, arg CreateRevisionParams) (model.Revision, error) {
	if arg.Sections == nil {
		arg.Sections = []model.Section{}
	}
	sections, err := marshalJSON(arg.Sections)
	if err != nil {
		return model.Revision{}, err
	}
	meta, err := marshalJSON(arg.Meta)
	if err != nil {
		return model.Revision{}, err
	}
	settings, err := marshalJSON(arg.Settings)
	if err != nil {
		return model.Revision{}, err
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO page_revisions (page_id, sections, meta, settings, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.PageID, sections, meta, settings, arg.AuthorID, arg.CreatedAt)
	if err != nil {
		return model.Revision{}, fmt.Errorf("creating revision: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Revision{}, err
	}
	return q.GetRevision(ctx, id)
}

// GetRevision returns a revision by primary key.
func (q *Queries) GetRevision(ctx context.Context, id int64) (model.Revision, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+revisionColumns+` FROM page_revisions WHERE id = ?`, id)
	return scanRevision(row)
}

// ListRevisionsByPage returns a page's revisions, newest first.
func (q *Queries) ListRevisionsByPage(ctx context.Context, pageID int64) ([]model.Revision, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+revisionColumns+` FROM page_revisions WHERE page_id = ? ORDER BY id DESC`,
		pageID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer rows.Close()

	var revs []model.Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// CountRevisionsByPage returns the number of revisions a page has.
func (q *Queries) CountRevisionsByPage(ctx context.Context, pageID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_revisions WHERE page_id = ?`, pageID).Scan(&n)
	return n, err
}

// ListPageIDsWithRevisions returns the distinct page ids present in the
// revision table, for the retention pruning job.
func (q *Queries) ListPageIDsWithRevisions(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT DISTINCT page_id FROM page_revisions`)
	if err != nil {
		return nil, fmt.Errorf("listing revision page ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PruneRevisionsParams holds inputs for PruneRevisions.
type PruneRevisionsParams struct {
	PageID int64
	Keep   int64
}

// PruneRevisions deletes all but the newest Keep revisions of a page and
// returns the number removed.
func (q *Queries) PruneRevisions(ctx context.Context, arg PruneRevisionsParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		DELETE FROM page_revisions
		WHERE page_id = ? AND id NOT IN (
			SELECT id FROM page_revisions WHERE page_id = ? ORDER BY id DESC LIMIT ?
		)`, arg.PageID, arg.PageID, arg.Keep)
	if err != nil {
		return 0, fmt.Errorf("pruning revisions: %w", err)
	}
	return res.RowsAffected()
}
