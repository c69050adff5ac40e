// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcmslabs/rcms/internal/model"
)

const projectColumns = `id, title, slug, summary, body, status, lead_id, tags,
	started_at, completed_at, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (model.ResearchProject, error) {
	var (
		p    model.ResearchProject
		tags string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Body, &p.Status,
		&p.LeadID, &tags, &p.StartedAt, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.ResearchProject{}, err
	}
	if err := unmarshalJSON(tags, &p.Tags); err != nil {
		return model.ResearchProject{}, fmt.Errorf("project %d tags: %w", p.ID, err)
	}
	return p, nil
}

// CreateProjectParams holds the inputs for CreateProject.
type CreateProjectParams struct {
	Title     string
	Slug      string
	Summary   string
	Body      string
	Status    string
	LeadID    int64
	Tags      []string
	StartedAt sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateProject inserts a research project and returns it.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.ResearchProject, error) {
	if arg.Tags == nil {
		arg.Tags = []string{}
	}
	tags, err := marshalJSON(arg.Tags)
	if err != nil {
		return model.ResearchProject{}, err
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO research_projects (title, slug, summary, body, status,
			lead_id, tags, started_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Summary, arg.Body, arg.Status,
		arg.LeadID, tags, arg.StartedAt, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.ResearchProject{}, fmt.Errorf("creating project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ResearchProject{}, err
	}
	return q.GetProjectByID(ctx, id)
}

// GetProjectByID returns a research project by primary key.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.ResearchProject, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM research_projects WHERE id = ?`, id)
	return scanProject(row)
}

// GetProjectBySlug returns a research project by slug.
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (model.ResearchProject, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM research_projects WHERE slug = ?`, slug)
	return scanProject(row)
}

// ListProjects returns all projects, most recently updated first.
func (q *Queries) ListProjects(ctx context.Context) ([]model.ResearchProject, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM research_projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []model.ResearchProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProjectParams holds the inputs for UpdateProject.
type UpdateProjectParams struct {
	ID          int64
	Title       string
	Slug        string
	Summary     string
	Body        string
	Status      string
	Tags        []string
	StartedAt   sql.NullTime
	CompletedAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdateProject updates a research project.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) error {
	if arg.Tags == nil {
		arg.Tags = []string{}
	}
	tags, err := marshalJSON(arg.Tags)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx, `
		UPDATE research_projects
		SET title = ?, slug = ?, summary = ?, body = ?, status = ?, tags = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Summary, arg.Body, arg.Status, tags,
		arg.StartedAt, arg.CompletedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// DeleteProject removes a project; publications and milestones cascade.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM research_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

const publicationColumns = `id, project_id, title, authors, venue, year, doi, url, created_at, updated_at`

func scanPublication(row interface{ Scan(...any) error }) (model.Publication, error) {
	var p model.Publication
	err := row.Scan(&p.ID, &p.ProjectID, &p.Title, &p.Authors, &p.Venue,
		&p.Year, &p.DOI, &p.URL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePublicationParams holds the inputs for CreatePublication.
type CreatePublicationParams struct {
	ProjectID int64
	Title     string
	Authors   string
	Venue     string
	Year      int64
	DOI       string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePublication inserts a publication and returns it.
func (q *Queries) CreatePublication(ctx context.Context, arg CreatePublicationParams) (model.Publication, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO publications (project_id, title, authors, venue, year, doi, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ProjectID, arg.Title, arg.Authors, arg.Venue, arg.Year,
		arg.DOI, arg.URL, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Publication{}, fmt.Errorf("creating publication: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Publication{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE id = ?`, id)
	return scanPublication(row)
}

// GetPublication returns a publication by primary key.
func (q *Queries) GetPublication(ctx context.Context, id int64) (model.Publication, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE id = ?`, id)
	return scanPublication(row)
}

// ListPublicationsByProject returns a project's publications, newest year first.
func (q *Queries) ListPublicationsByProject(ctx context.Context, projectID int64) ([]model.Publication, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE project_id = ? ORDER BY year DESC, id DESC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	var pubs []model.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}

// UpdatePublicationParams holds the inputs for UpdatePublication.
type UpdatePublicationParams struct {
	ID        int64
	Title     string
	Authors   string
	Venue     string
	Year      int64
	DOI       string
	URL       string
	UpdatedAt time.Time
}

// UpdatePublication updates a publication.
func (q *Queries) UpdatePublication(ctx context.Context, arg UpdatePublicationParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE publications
		SET title = ?, authors = ?, venue = ?, year = ?, doi = ?, url = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Authors, arg.Venue, arg.Year, arg.DOI, arg.URL,
		arg.UpdatedAt, arg.ID)
	if err != nil {
		return fmt.Errorf("updating publication: %w", err)
	}
	return nil
}

// DeletePublication removes a publication.
func (q *Queries) DeletePublication(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM publications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting publication: %w", err)
	}
	return nil
}

const milestoneColumns = `id, project_id, title, description, due_at, done, created_at, updated_at`

func scanMilestone(row interface{ Scan(...any) error }) (model.Milestone, error) {
	var m model.Milestone
	err := row.Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description,
		&m.DueAt, &m.Done, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMilestoneParams holds the inputs for CreateMilestone.
type CreateMilestoneParams struct {
	ProjectID   int64
	Title       string
	Description string
	DueAt       sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateMilestone inserts a milestone and returns it.
func (q *Queries) CreateMilestone(ctx context.Context, arg CreateMilestoneParams) (model.Milestone, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO milestones (project_id, title, description, due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ProjectID, arg.Title, arg.Description, arg.DueAt, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Milestone{}, fmt.Errorf("creating milestone: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Milestone{}, err
	}
	return q.GetMilestone(ctx, id)
}

// GetMilestone returns a milestone by primary key.
func (q *Queries) GetMilestone(ctx context.Context, id int64) (model.Milestone, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE id = ?`, id)
	return scanMilestone(row)
}

// ListMilestonesByProject returns a project's milestones by due date.
func (q *Queries) ListMilestonesByProject(ctx context.Context, projectID int64) ([]model.Milestone, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE project_id = ?
		 ORDER BY due_at IS NULL, due_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []model.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// UpdateMilestoneParams holds the inputs for UpdateMilestone.
type UpdateMilestoneParams struct {
	ID          int64
	Title       string
	Description string
	DueAt       sql.NullTime
	Done        bool
	UpdatedAt   time.Time
}

// UpdateMilestone updates a milestone.
func (q *Queries) UpdateMilestone(ctx context.Context, arg UpdateMilestoneParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE milestones
		SET title = ?, description = ?, due_at = ?, done = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Description, arg.DueAt, arg.Done, arg.UpdatedAt, arg.ID)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	return nil
}

// DeleteMilestone removes a milestone.
func (q *Queries) DeleteMilestone(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	return nil
}
