// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/testutil"
)

func setupResearchService(t *testing.T) (*ResearchService, model.User, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	q := store.New(db)
	svc := NewResearchService(db, NewEventService(db))
	lead := testutil.SeedUser(t, q, "lead@example.com", model.RoleResearcher)
	return svc, lead, cleanup
}

func TestResearchService_ProjectLifecycle(t *testing.T) {
	svc, lead, cleanup := setupResearchService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, ProjectInput{
		Title: "Protein Folding", Summary: "foldy", Tags: []string{"biology"},
	}, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "protein-folding", project.Slug)
	assert.Equal(t, model.ProjectStatusProposed, project.Status, "status defaults to proposed")
	assert.Equal(t, lead.ID, project.LeadID)

	updated, err := svc.UpdateProject(ctx, project.ID, ProjectInput{
		Title: project.Title, Slug: project.Slug, Status: model.ProjectStatusActive,
		Tags: project.Tags,
	}, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusActive, updated.Status)

	completed, err := svc.UpdateProject(ctx, project.ID, ProjectInput{
		Title: project.Title, Slug: project.Slug, Status: model.ProjectStatusCompleted,
		Tags: project.Tags,
	}, lead.ID)
	require.NoError(t, err)
	assert.True(t, completed.CompletedAt.Valid, "completion stamped automatically")

	require.NoError(t, svc.DeleteProject(ctx, project.ID, lead.ID))
	_, err = svc.GetProject(ctx, project.ID)
	assert.True(t, IsNotFound(err))
}

func TestResearchService_ProjectValidation(t *testing.T) {
	svc, lead, cleanup := setupResearchService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, ProjectInput{Title: ""}, lead.ID)
	assert.True(t, IsValidation(err), "empty title")

	_, err = svc.CreateProject(ctx, ProjectInput{Title: "X", Status: "abandoned"}, lead.ID)
	assert.True(t, IsValidation(err), "unknown status")

	_, err = svc.CreateProject(ctx, ProjectInput{Title: "First", Slug: "same"}, lead.ID)
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, ProjectInput{Title: "Second", Slug: "same"}, lead.ID)
	assert.True(t, IsValidation(err), "duplicate slug")
}

func TestResearchService_Publications(t *testing.T) {
	svc, lead, cleanup := setupResearchService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, ProjectInput{Title: "NLP"}, lead.ID)
	require.NoError(t, err)

	_, err = svc.CreatePublication(ctx, project.ID, PublicationInput{
		Title: "Paper", Authors: "A. Researcher", Year: 1776,
	}, lead.ID)
	assert.True(t, IsValidation(err), "year out of range")

	_, err = svc.CreatePublication(ctx, project.ID, PublicationInput{
		Title: "Paper", Authors: "A. Researcher", Year: 2024, DOI: "not-a-doi",
	}, lead.ID)
	assert.True(t, IsValidation(err), "malformed DOI")

	older, err := svc.CreatePublication(ctx, project.ID, PublicationInput{
		Title: "Older Paper", Authors: "A. Researcher", Year: 2022,
	}, lead.ID)
	require.NoError(t, err)
	newer, err := svc.CreatePublication(ctx, project.ID, PublicationInput{
		Title: "Newer Paper", Authors: "A. Researcher", Year: 2025, DOI: "10.1000/xyz",
	}, lead.ID)
	require.NoError(t, err)

	pubs, err := svc.ListPublications(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	assert.Equal(t, newer.ID, pubs[0].ID, "newest year first")

	_, err = svc.GetPublication(ctx, project.ID+1, older.ID)
	assert.True(t, IsNotFound(err), "publication scoped to its project")

	require.NoError(t, svc.DeletePublication(ctx, project.ID, older.ID, lead.ID))
	pubs, err = svc.ListPublications(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, pubs, 1)
}

func TestResearchService_Milestones(t *testing.T) {
	svc, lead, cleanup := setupResearchService(t)
	defer cleanup()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, ProjectInput{Title: "Robotics"}, lead.ID)
	require.NoError(t, err)

	later := time.Now().UTC().Add(48 * time.Hour)
	sooner := time.Now().UTC().Add(24 * time.Hour)

	_, err = svc.CreateMilestone(ctx, project.ID, MilestoneInput{Title: "Ship v2", DueAt: &later}, lead.ID)
	require.NoError(t, err)
	first, err := svc.CreateMilestone(ctx, project.ID, MilestoneInput{Title: "Ship v1", DueAt: &sooner}, lead.ID)
	require.NoError(t, err)
	_, err = svc.CreateMilestone(ctx, project.ID, MilestoneInput{Title: "Someday"}, lead.ID)
	require.NoError(t, err)

	milestones, err := svc.ListMilestones(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, milestones, 3)
	assert.Equal(t, first.ID, milestones[0].ID, "dated milestones first, by due date")
	assert.Equal(t, "Someday", milestones[2].Title, "undated milestones last")

	done, err := svc.UpdateMilestone(ctx, project.ID, first.ID, MilestoneInput{
		Title: first.Title, DueAt: &sooner, Done: true,
	}, lead.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)
}
