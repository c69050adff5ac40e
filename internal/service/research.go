// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/util"
)

// ResearchService manages research projects and their attached
// publications and milestones.
type ResearchService struct {
	queries *store.Queries
	events  *EventService
}

// NewResearchService creates a new ResearchService.
func NewResearchService(db *sql.DB, events *EventService) *ResearchService {
	return &ResearchService{
		queries: store.New(db),
		events:  events,
	}
}

// ProjectInput holds the editable fields of a research project.
type ProjectInput struct {
	Title       string
	Slug        string
	Summary     string
	Body        string
	Status      string
	Tags        []string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func validProjectStatus(status string) bool {
	for _, s := range model.ValidProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *ResearchService) validateProject(ctx context.Context, in *ProjectInput, excludeID int64) error {
	if in.Title == "" {
		return newValidationError("title", "must not be empty")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}
	if !util.IsValidSlug(in.Slug) {
		return newValidationError("slug", "must contain only lowercase letters, digits and single hyphens")
	}
	if in.Status == "" {
		in.Status = model.ProjectStatusProposed
	}
	if !validProjectStatus(in.Status) {
		return newValidationError("status", "is not a recognized project status")
	}

	existing, err := s.queries.GetProjectBySlug(ctx, in.Slug)
	if err == nil && existing.ID != excludeID {
		return newValidationError("slug", "is already in use")
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func nullTimeFromPtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// CreateProject inserts a new research project led by leadID.
func (s *ResearchService) CreateProject(ctx context.Context, in ProjectInput, leadID int64) (model.ResearchProject, error) {
	if err := s.validateProject(ctx, &in, 0); err != nil {
		return model.ResearchProject{}, err
	}

	now := time.Now().UTC()
	project, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:     in.Title,
		Slug:      in.Slug,
		Summary:   in.Summary,
		Body:      in.Body,
		Status:    in.Status,
		LeadID:    leadID,
		Tags:      in.Tags,
		StartedAt: nullTimeFromPtr(in.StartedAt),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.ResearchProject{}, err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Research project created: %s", project.Slug), &leadID,
		map[string]any{"project_id": project.ID})
	return project, nil
}

// GetProject returns a project by id.
func (s *ResearchService) GetProject(ctx context.Context, id int64) (model.ResearchProject, error) {
	p, err := s.queries.GetProjectByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResearchProject{}, newNotFoundError("research project", fmt.Sprint(id))
	}
	return p, err
}

// GetProjectBySlug returns a project by slug.
func (s *ResearchService) GetProjectBySlug(ctx context.Context, slug string) (model.ResearchProject, error) {
	p, err := s.queries.GetProjectBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResearchProject{}, newNotFoundError("research project", slug)
	}
	return p, err
}

// ListProjects returns all projects, most recently updated first.
func (s *ResearchService) ListProjects(ctx context.Context) ([]model.ResearchProject, error) {
	return s.queries.ListProjects(ctx)
}

// UpdateProject updates a project's fields. Transitioning to completed
// stamps CompletedAt when the caller left it unset.
func (s *ResearchService) UpdateProject(ctx context.Context, id int64, in ProjectInput, actorID int64) (model.ResearchProject, error) {
	if err := s.validateProject(ctx, &in, id); err != nil {
		return model.ResearchProject{}, err
	}

	current, err := s.GetProject(ctx, id)
	if err != nil {
		return model.ResearchProject{}, err
	}

	now := time.Now().UTC()
	completedAt := nullTimeFromPtr(in.CompletedAt)
	if in.Status == model.ProjectStatusCompleted && !completedAt.Valid {
		if current.CompletedAt.Valid {
			completedAt = current.CompletedAt
		} else {
			completedAt = sql.NullTime{Time: now, Valid: true}
		}
	}

	if err := s.queries.UpdateProject(ctx, store.UpdateProjectParams{
		ID:          id,
		Title:       in.Title,
		Slug:        in.Slug,
		Summary:     in.Summary,
		Body:        in.Body,
		Status:      in.Status,
		Tags:        in.Tags,
		StartedAt:   nullTimeFromPtr(in.StartedAt),
		CompletedAt: completedAt,
		UpdatedAt:   now,
	}); err != nil {
		return model.ResearchProject{}, err
	}

	message := fmt.Sprintf("Research project updated: %s", in.Slug)
	if in.Status != current.Status {
		message = fmt.Sprintf("Research project %s: %s", in.Status, in.Slug)
	}
	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo, message, &actorID,
		map[string]any{"project_id": id, "status": in.Status})
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project; publications and milestones cascade.
func (s *ResearchService) DeleteProject(ctx context.Context, id, actorID int64) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteProject(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelWarning,
		fmt.Sprintf("Research project deleted: %s", project.Slug), &actorID,
		map[string]any{"project_id": id})
	return nil
}

// PublicationInput holds the editable fields of a publication.
type PublicationInput struct {
	Title   string
	Authors string
	Venue   string
	Year    int64
	DOI     string
	URL     string
}

func validatePublication(in PublicationInput) error {
	if in.Title == "" {
		return newValidationError("title", "must not be empty")
	}
	if in.Authors == "" {
		return newValidationError("authors", "must not be empty")
	}
	if in.Year < 1900 || in.Year > int64(time.Now().Year())+1 {
		return newValidationError("year", "is out of range")
	}
	if in.DOI != "" && !strings.HasPrefix(in.DOI, "10.") {
		return newValidationError("doi", "must start with \"10.\"")
	}
	return nil
}

// CreatePublication attaches a publication to a project.
func (s *ResearchService) CreatePublication(ctx context.Context, projectID int64, in PublicationInput, actorID int64) (model.Publication, error) {
	if err := validatePublication(in); err != nil {
		return model.Publication{}, err
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return model.Publication{}, err
	}

	now := time.Now().UTC()
	pub, err := s.queries.CreatePublication(ctx, store.CreatePublicationParams{
		ProjectID: projectID,
		Title:     in.Title,
		Authors:   in.Authors,
		Venue:     in.Venue,
		Year:      in.Year,
		DOI:       in.DOI,
		URL:       in.URL,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Publication{}, err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Publication added: %s", pub.Title), &actorID,
		map[string]any{"project_id": projectID, "publication_id": pub.ID})
	return pub, nil
}

// GetPublication returns a publication, verifying project membership.
func (s *ResearchService) GetPublication(ctx context.Context, projectID, id int64) (model.Publication, error) {
	pub, err := s.queries.GetPublication(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Publication{}, newNotFoundError("publication", fmt.Sprint(id))
		}
		return model.Publication{}, err
	}
	if pub.ProjectID != projectID {
		return model.Publication{}, newNotFoundError("publication", fmt.Sprint(id))
	}
	return pub, nil
}

// ListPublications returns a project's publications, newest year first.
func (s *ResearchService) ListPublications(ctx context.Context, projectID int64) ([]model.Publication, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.queries.ListPublicationsByProject(ctx, projectID)
}

// UpdatePublication updates a publication's fields.
func (s *ResearchService) UpdatePublication(ctx context.Context, projectID, id int64, in PublicationInput, actorID int64) (model.Publication, error) {
	if err := validatePublication(in); err != nil {
		return model.Publication{}, err
	}
	if _, err := s.GetPublication(ctx, projectID, id); err != nil {
		return model.Publication{}, err
	}

	if err := s.queries.UpdatePublication(ctx, store.UpdatePublicationParams{
		ID:        id,
		Title:     in.Title,
		Authors:   in.Authors,
		Venue:     in.Venue,
		Year:      in.Year,
		DOI:       in.DOI,
		URL:       in.URL,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return model.Publication{}, err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Publication updated: %s", in.Title), &actorID,
		map[string]any{"project_id": projectID, "publication_id": id})
	return s.GetPublication(ctx, projectID, id)
}

// DeletePublication removes a publication.
func (s *ResearchService) DeletePublication(ctx context.Context, projectID, id, actorID int64) error {
	pub, err := s.GetPublication(ctx, projectID, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeletePublication(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Publication removed: %s", pub.Title), &actorID,
		map[string]any{"project_id": projectID, "publication_id": id})
	return nil
}

// MilestoneInput holds the editable fields of a milestone.
type MilestoneInput struct {
	Title       string
	Description string
	DueAt       *time.Time
	Done        bool
}

// CreateMilestone attaches a milestone to a project.
func (s *ResearchService) CreateMilestone(ctx context.Context, projectID int64, in MilestoneInput, actorID int64) (model.Milestone, error) {
	if in.Title == "" {
		return model.Milestone{}, newValidationError("title", "must not be empty")
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return model.Milestone{}, err
	}

	now := time.Now().UTC()
	m, err := s.queries.CreateMilestone(ctx, store.CreateMilestoneParams{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		DueAt:       nullTimeFromPtr(in.DueAt),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Milestone{}, err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Milestone added: %s", m.Title), &actorID,
		map[string]any{"project_id": projectID, "milestone_id": m.ID})
	return m, nil
}

// GetMilestone returns a milestone, verifying project membership.
func (s *ResearchService) GetMilestone(ctx context.Context, projectID, id int64) (model.Milestone, error) {
	m, err := s.queries.GetMilestone(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Milestone{}, newNotFoundError("milestone", fmt.Sprint(id))
		}
		return model.Milestone{}, err
	}
	if m.ProjectID != projectID {
		return model.Milestone{}, newNotFoundError("milestone", fmt.Sprint(id))
	}
	return m, nil
}

// ListMilestones returns a project's milestones ordered by due date.
func (s *ResearchService) ListMilestones(ctx context.Context, projectID int64) ([]model.Milestone, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.queries.ListMilestonesByProject(ctx, projectID)
}

// UpdateMilestone updates a milestone's fields including the done flag.
func (s *ResearchService) UpdateMilestone(ctx context.Context, projectID, id int64, in MilestoneInput, actorID int64) (model.Milestone, error) {
	if in.Title == "" {
		return model.Milestone{}, newValidationError("title", "must not be empty")
	}
	if _, err := s.GetMilestone(ctx, projectID, id); err != nil {
		return model.Milestone{}, err
	}

	if err := s.queries.UpdateMilestone(ctx, store.UpdateMilestoneParams{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		DueAt:       nullTimeFromPtr(in.DueAt),
		Done:        in.Done,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		return model.Milestone{}, err
	}

	return s.GetMilestone(ctx, projectID, id)
}

// DeleteMilestone removes a milestone.
func (s *ResearchService) DeleteMilestone(ctx context.Context, projectID, id, actorID int64) error {
	m, err := s.GetMilestone(ctx, projectID, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteMilestone(ctx, id); err != nil {
		return err
	}

	_ = s.events.LogResearchEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Milestone removed: %s", m.Title), &actorID,
		map[string]any{"project_id": projectID, "milestone_id": id})
	return nil
}
