// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/testutil"
)

// seedSourceSite fills a database with one of everything and returns
// the queries handle.
func seedSourceSite(t *testing.T, db *sql.DB) *store.Queries {
	t.Helper()
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC().Truncate(time.Second)

	editor := testutil.SeedUser(t, q, "editor@example.com", model.RoleEditor)
	lead := testutil.SeedUser(t, q, "lead@example.com", model.RoleResearcher)

	testutil.SeedPage(t, q, "About the lab", "about", editor.ID, []model.Section{
		{ID: "s1", Type: model.SectionText, Content: model.TextContent{Body: "Welcome"}, IsVisible: true},
	})

	project, err := q.CreateProject(ctx, store.CreateProjectParams{
		Title: "Coral Genomics", Slug: "coral-genomics", Status: model.ProjectStatusCompleted,
		LeadID: lead.ID, Tags: []string{"genomics"},
		StartedAt: sql.NullTime{Time: now.AddDate(-1, 0, 0), Valid: true},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, q.UpdateProject(ctx, store.UpdateProjectParams{
		ID: project.ID, Title: project.Title, Slug: project.Slug,
		Status: project.Status, Tags: project.Tags, StartedAt: project.StartedAt,
		CompletedAt: sql.NullTime{Time: now, Valid: true}, UpdatedAt: now,
	}))
	_, err = q.CreatePublication(ctx, store.CreatePublicationParams{
		ProjectID: project.ID, Title: "Reef resilience", Authors: "Doe, J.",
		Year: 2025, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	ms, err := q.CreateMilestone(ctx, store.CreateMilestoneParams{
		ProjectID: project.ID, Title: "Sequencing complete",
		DueAt: sql.NullTime{Time: now, Valid: true}, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, q.UpdateMilestone(ctx, store.UpdateMilestoneParams{
		ID: ms.ID, Title: ms.Title, Description: ms.Description,
		DueAt: ms.DueAt, Done: true, UpdatedAt: now,
	}))

	post, err := q.CreateBlogPost(ctx, store.CreateBlogPostParams{
		Title: "Field notes", Slug: "field-notes", Body: "Out at sea.",
		Status: model.PageStatusPublished, AuthorID: editor.ID,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, q.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		ID: post.ID, Title: post.Title, Slug: post.Slug, Body: post.Body,
		Status: post.Status, PublishedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt: now,
	}))

	_, err = q.CreateProduct(ctx, store.CreateProductParams{
		Name: "Sampling Kit", Slug: "sampling-kit", Published: true,
		Position: 1, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	require.NoError(t, q.SetConfig(ctx, store.ConfigKeySiteName, "Reef Lab"))
	theme := model.Theme{Name: "export-test", Colors: model.ColorSettings{Primary: "#123456"}}
	raw, err := json.Marshal(theme)
	require.NoError(t, err)
	require.NoError(t, q.SetConfig(ctx, store.ConfigKeySiteTheme, string(raw)))
	require.NoError(t, q.SetConfig(ctx, "footer_text", "hello"))

	return q
}

func TestExportImportRoundTrip(t *testing.T) {
	srcDB, srcCleanup := testutil.TestDB(t)
	defer srcCleanup()
	seedSourceSite(t, srcDB)

	ctx := context.Background()
	exporter := NewExporter(store.New(srcDB), testutil.TestLogger())
	doc, err := exporter.Export(ctx, FullExport())
	require.NoError(t, err)

	assert.Equal(t, ExportVersion, doc.Version)
	assert.Equal(t, "Reef Lab", doc.Site.Name)
	require.Len(t, doc.Users, 2)
	require.Len(t, doc.Pages, 1)
	require.Len(t, doc.Projects, 1)
	require.Len(t, doc.BlogPosts, 1)
	require.Len(t, doc.Products, 1)
	require.NotNil(t, doc.Theme)
	assert.Equal(t, "#123456", doc.Theme.Colors.Primary)
	assert.Equal(t, "hello", doc.Config["footer_text"])
	assert.NotContains(t, doc.Config, store.ConfigKeySiteTheme)

	project := doc.Projects[0]
	assert.Equal(t, "lead@example.com", project.LeadEmail)
	assert.NotNil(t, project.CompletedAt)
	require.Len(t, project.Publications, 1)
	require.Len(t, project.Milestones, 1)
	assert.True(t, project.Milestones[0].Done)

	// The document survives a trip through JSON, as it would on disk.
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var restored ExportData
	require.NoError(t, json.Unmarshal(raw, &restored))

	dstDB, dstCleanup := testutil.TestDB(t)
	defer dstCleanup()
	dstQ := store.New(dstDB)
	admin := testutil.SeedUser(t, dstQ, "admin@example.com", model.RoleAdmin)

	importer := NewImporter(dstDB, testutil.TestLogger())
	result, err := importer.Import(ctx, &restored, ImportOptions{}, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Imported["users"])
	assert.Equal(t, 1, result.Imported["pages"])
	assert.Equal(t, 1, result.Imported["projects"])
	assert.Equal(t, 1, result.Imported["publications"])
	assert.Equal(t, 1, result.Imported["milestones"])
	assert.Equal(t, 1, result.Imported["blog_posts"])
	assert.Equal(t, 1, result.Imported["products"])

	// Authors are re-linked through their emails, not old ids.
	page, err := dstQ.GetPageBySlug(ctx, "about")
	require.NoError(t, err)
	author, err := dstQ.GetUserByID(ctx, page.AuthorID)
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", author.Email)
	require.Len(t, page.Sections, 1)
	text, ok := page.Sections[0].Content.(model.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Welcome", text.Body)

	imported, err := dstQ.GetProjectBySlug(ctx, "coral-genomics")
	require.NoError(t, err)
	lead, err := dstQ.GetUserByID(ctx, imported.LeadID)
	require.NoError(t, err)
	assert.Equal(t, "lead@example.com", lead.Email)
	assert.True(t, imported.CompletedAt.Valid)
	milestones, err := dstQ.ListMilestonesByProject(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.True(t, milestones[0].Done)

	post, err := dstQ.GetBlogPostBySlug(ctx, "field-notes")
	require.NoError(t, err)
	assert.True(t, post.PublishedAt.Valid)

	name, err := dstQ.GetConfig(ctx, store.ConfigKeySiteName)
	require.NoError(t, err)
	assert.Equal(t, "Reef Lab", name)
	storedTheme, err := dstQ.GetConfig(ctx, store.ConfigKeySiteTheme)
	require.NoError(t, err)
	assert.Contains(t, storedTheme, "#123456")

	// Imported accounts never inherit the source password hash.
	assert.NotEqual(t, "x", author.PasswordHash)
}

func TestImportDryRunWritesNothing(t *testing.T) {
	srcDB, srcCleanup := testutil.TestDB(t)
	defer srcCleanup()
	seedSourceSite(t, srcDB)

	ctx := context.Background()
	doc, err := NewExporter(store.New(srcDB), testutil.TestLogger()).Export(ctx, FullExport())
	require.NoError(t, err)

	dstDB, dstCleanup := testutil.TestDB(t)
	defer dstCleanup()
	dstQ := store.New(dstDB)
	admin := testutil.SeedUser(t, dstQ, "admin@example.com", model.RoleAdmin)

	result, err := NewImporter(dstDB, testutil.TestLogger()).Import(ctx, doc, ImportOptions{DryRun: true}, admin.ID)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.Imported["users"])
	assert.Equal(t, 1, result.Imported["pages"])

	n, err := dstQ.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	pages, err := dstQ.CountPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pages)
}

func TestImportSkipExisting(t *testing.T) {
	srcDB, srcCleanup := testutil.TestDB(t)
	defer srcCleanup()
	seedSourceSite(t, srcDB)

	ctx := context.Background()
	doc, err := NewExporter(store.New(srcDB), testutil.TestLogger()).Export(ctx, FullExport())
	require.NoError(t, err)

	dstDB, dstCleanup := testutil.TestDB(t)
	defer dstCleanup()
	dstQ := store.New(dstDB)
	admin := testutil.SeedUser(t, dstQ, "admin@example.com", model.RoleAdmin)
	// One colliding user and one colliding page.
	testutil.SeedUser(t, dstQ, "editor@example.com", model.RoleEditor)
	testutil.SeedPage(t, dstQ, "Existing about", "about", admin.ID, nil)

	importer := NewImporter(dstDB, testutil.TestLogger())

	// Without SkipExisting the collisions are reported per record.
	result, err := importer.Import(ctx, doc, ImportOptions{}, admin.ID)
	require.NoError(t, err)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "user", result.Errors[0].Entity)
	assert.Equal(t, "page", result.Errors[1].Entity)

	dst2DB, dst2Cleanup := testutil.TestDB(t)
	defer dst2Cleanup()
	dst2Q := store.New(dst2DB)
	admin2 := testutil.SeedUser(t, dst2Q, "admin@example.com", model.RoleAdmin)
	testutil.SeedUser(t, dst2Q, "editor@example.com", model.RoleEditor)
	testutil.SeedPage(t, dst2Q, "Existing about", "about", admin2.ID, nil)

	result, err = NewImporter(dst2DB, testutil.TestLogger()).Import(ctx, doc, ImportOptions{SkipExisting: true}, admin2.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Skipped["users"])
	assert.Equal(t, 1, result.Skipped["pages"])
	assert.Equal(t, 1, result.Imported["users"])
	assert.Equal(t, 1, result.Imported["projects"])
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	_, err := NewImporter(db, testutil.TestLogger()).Import(context.Background(),
		&ExportData{Version: "99.0"}, ImportOptions{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestImportRejectsBadRecords(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	admin := testutil.SeedUser(t, q, "admin@example.com", model.RoleAdmin)

	doc := &ExportData{
		Version: ExportVersion,
		Users:   []ExportUser{{Email: "czar@example.com", Role: "czar"}},
		Pages:   []ExportPage{{Title: "", Slug: ""}},
	}
	result, err := NewImporter(db, testutil.TestLogger()).Import(context.Background(), doc, ImportOptions{}, admin.ID)
	require.NoError(t, err)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "unknown role czar", result.Errors[0].Message)
	assert.Zero(t, result.Imported["users"])
}
