// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/service"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/testutil"
)

func TestPublishScheduledPages(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	events := service.NewEventService(db)
	author := testutil.SeedUser(t, q, "editor@example.com", model.RoleEditor)

	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	due, err := q.CreatePage(ctx, store.CreatePageParams{
		Title: "Due", Slug: "due", Status: model.PageStatusDraft,
		AuthorID: author.ID, PublishAt: &past, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	notDue, err := q.CreatePage(ctx, store.CreatePageParams{
		Title: "Not due", Slug: "not-due", Status: model.PageStatusDraft,
		AuthorID: author.ID, PublishAt: &future, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	unscheduled, err := q.CreatePage(ctx, store.CreatePageParams{
		Title: "Unscheduled", Slug: "unscheduled", Status: model.PageStatusDraft,
		AuthorID: author.ID, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	s := New(db, events, testutil.TestLogger(), 50)
	require.NoError(t, s.publishScheduledPages(ctx))

	got, err := q.GetPageByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PageStatusPublished, got.Status)
	// Status transitions bump the version.
	assert.Equal(t, due.Version+1, got.Version)

	got, err = q.GetPageByID(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PageStatusDraft, got.Status)

	got, err = q.GetPageByID(ctx, unscheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PageStatusDraft, got.Status)

	// The publish is recorded in the audit log as a system action.
	logged, err := events.List(ctx, model.EventLevelInfo, model.EventCategoryPage, 10, 0)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.False(t, logged[0].UserID.Valid)
}

func TestPublishScheduledPagesIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	events := service.NewEventService(db)
	author := testutil.SeedUser(t, q, "editor@example.com", model.RoleEditor)

	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	page, err := q.CreatePage(ctx, store.CreatePageParams{
		Title: "Once", Slug: "once", Status: model.PageStatusDraft,
		AuthorID: author.ID, PublishAt: &past, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	s := New(db, events, testutil.TestLogger(), 50)
	require.NoError(t, s.publishScheduledPages(ctx))
	require.NoError(t, s.publishScheduledPages(ctx))

	got, err := q.GetPageByID(ctx, page.ID)
	require.NoError(t, err)
	// Already-published pages are not picked up again.
	assert.Equal(t, page.Version+1, got.Version)
}

func TestPruneRevisions(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	events := service.NewEventService(db)
	author := testutil.SeedUser(t, q, "editor@example.com", model.RoleEditor)
	page := testutil.SeedPage(t, q, "History", "history", author.ID, nil)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := q.CreateRevision(ctx, store.CreateRevisionParams{
			PageID:    page.ID,
			AuthorID:  author.ID,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	s := New(db, events, testutil.TestLogger(), 2)
	require.NoError(t, s.pruneRevisions(ctx))

	n, err := q.CountRevisionsByPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// The two newest survive.
	revs, err := q.ListRevisionsByPage(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Greater(t, revs[0].ID, revs[1].ID)
}

func TestPruneRevisionsDisabled(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	events := service.NewEventService(db)
	author := testutil.SeedUser(t, q, "editor@example.com", model.RoleEditor)
	page := testutil.SeedPage(t, q, "Keep all", "keep-all", author.ID, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := q.CreateRevision(ctx, store.CreateRevisionParams{
			PageID:    page.ID,
			AuthorID:  author.ID,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	s := New(db, events, testutil.TestLogger(), 0)
	require.NoError(t, s.pruneRevisions(ctx))

	n, err := q.CountRevisionsByPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
