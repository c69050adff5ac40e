// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background cron jobs: publishing pages
// whose publish_at has passed, and pruning old page revisions down to
// the retention limit.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/service"
	"github.com/rcmslabs/rcms/internal/store"
)

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	queries      *store.Queries
	events       *service.EventService
	cron         *cron.Cron
	logger       *slog.Logger
	revisionKeep int64
}

// New creates a scheduler. revisionKeep is the number of revisions
// retained per page by the nightly pruning job.
func New(db *sql.DB, events *service.EventService, logger *slog.Logger, revisionKeep int64) *Scheduler {
	return &Scheduler{
		queries:      store.New(db),
		events:       events,
		cron:         cron.New(),
		logger:       logger,
		revisionKeep: revisionKeep,
	}
}

// Start registers the jobs and starts the cron loop: scheduled
// publishing every minute, revision pruning at 03:30.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.publishScheduledPages(context.Background()); err != nil {
			s.logger.Error("scheduled publishing failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.pruneRevisions(context.Background()); err != nil {
			s.logger.Error("revision pruning failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishScheduledPages publishes every draft whose publish_at has
// passed. Each page gets its own status update so one failure does not
// block the rest.
func (s *Scheduler) publishScheduledPages(ctx context.Context) error {
	now := time.Now().UTC()
	pages, err := s.queries.ListScheduledPages(ctx, now)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return nil
	}

	s.logger.Info("publishing scheduled pages", "count", len(pages))

	for _, page := range pages {
		if err := s.queries.UpdatePageStatus(ctx, store.UpdatePageStatusParams{
			ID:        page.ID,
			Status:    model.PageStatusPublished,
			UpdatedAt: now,
		}); err != nil {
			s.logger.Error("publishing scheduled page failed",
				"page_id", page.ID, "slug", page.Slug, "error", err)
			continue
		}

		metadata := map[string]any{
			"page_id": page.ID,
			"slug":    page.Slug,
		}
		if page.PublishAt != nil {
			metadata["publish_at"] = page.PublishAt.Format(time.RFC3339)
		}
		_ = s.events.LogPageEvent(ctx, model.EventLevelInfo,
			"Page published on schedule: "+page.Title, nil, metadata)
		s.logger.Info("published scheduled page", "page_id", page.ID, "slug", page.Slug)
	}
	return nil
}

// pruneRevisions trims every page's revision log to the retention
// limit, oldest first.
func (s *Scheduler) pruneRevisions(ctx context.Context) error {
	if s.revisionKeep <= 0 {
		return nil
	}

	ids, err := s.queries.ListPageIDsWithRevisions(ctx)
	if err != nil {
		return err
	}

	var pruned int64
	for _, id := range ids {
		n, err := s.queries.PruneRevisions(ctx, store.PruneRevisionsParams{
			PageID: id,
			Keep:   s.revisionKeep,
		})
		if err != nil {
			s.logger.Error("pruning revisions failed", "page_id", id, "error", err)
			continue
		}
		pruned += n
	}

	if pruned > 0 {
		s.logger.Info("pruned revisions", "removed", pruned, "keep", s.revisionKeep)
		_ = s.events.LogSystemEvent(ctx, model.EventLevelInfo,
			"Revision retention applied", nil, map[string]any{
				"removed": pruned,
				"keep":    s.revisionKeep,
			})
	}
	return nil
}
