// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcmslabs/rcms/internal/auth"
	"github.com/rcmslabs/rcms/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the initial admin account if it does not exist yet.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		FullName:     DefaultAdminName,
		Role:         model.RoleSuperAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	if err := seedSampleContent(ctx, queries, user.ID, now); err != nil {
		return fmt.Errorf("seeding sample content: %w", err)
	}
	return nil
}

// seedSampleContent creates a starter home page, a research project and a
// welcome blog post so a fresh install is not empty. Runs only on the
// first Seed, alongside the admin account.
func seedSampleContent(ctx context.Context, queries *Queries, adminID int64, now time.Time) error {
	if err := queries.SetConfig(ctx, ConfigKeySiteName, "Research Lab"); err != nil {
		return err
	}

	home, err := queries.CreatePage(ctx, CreatePageParams{
		Title:       "Home",
		Slug:        "home",
		Description: "Landing page",
		Status:      model.PageStatusPublished,
		Sections: []model.Section{
			{
				ID:   "hero-1",
				Type: model.SectionHero,
				Content: model.HeroContent{
					Title:    "Welcome to the Lab",
					Subtitle: "Open research, shared with everyone.",
				},
				IsVisible: true,
			},
			{
				ID:   "text-1",
				Type: model.SectionText,
				Content: model.TextContent{
					Body:   "## About us\n\nEdit this page to introduce your group.",
					Format: "markdown",
				},
				IsVisible: true,
			},
		},
		AuthorID:  adminID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating home page: %w", err)
	}
	slog.Info("seeded home page", "id", home.ID, "slug", home.Slug)

	project, err := queries.CreateProject(ctx, CreateProjectParams{
		Title:     "Example Project",
		Slug:      "example-project",
		Summary:   "A sample research project to get you started.",
		Status:    model.ProjectStatusActive,
		LeadID:    adminID,
		Tags:      []string{"sample"},
		StartedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating sample project: %w", err)
	}
	if _, err := queries.CreateMilestone(ctx, CreateMilestoneParams{
		ProjectID:   project.ID,
		Title:       "Kickoff",
		Description: "Replace this with your first real milestone.",
		DueAt:       sql.NullTime{Time: now.AddDate(0, 1, 0), Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return fmt.Errorf("creating sample milestone: %w", err)
	}

	post, err := queries.CreateBlogPost(ctx, CreateBlogPostParams{
		Title:     "Hello from your new site",
		Slug:      "hello",
		Excerpt:   "The site is up and running.",
		Body:      "This post was created automatically. Write your own and delete it.",
		Status:    model.PageStatusDraft,
		AuthorID:  adminID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating sample blog post: %w", err)
	}
	slog.Info("seeded sample content", "project_id", project.ID, "post_id", post.ID)
	return nil
}
