// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/rbac"
)

// Routes mounts all /api/v1 endpoints. Every request goes through
// LoadUser; authenticated groups add RequireAuth and a per-route
// authorization check. Ownership rules (project lead, post author) are
// enforced a second time inside the services with the full record.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.LoadUser(h.sessions, h.db))

	r.Get("/status", h.Status)

	// Auth.
	r.Group(func(r chi.Router) {
		r.With(h.LoginShield()).Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)
	})

	// Public read endpoints, no session required.
	r.Route("/public", func(r chi.Router) {
		r.Get("/pages/{slug}", h.GetPublishedPage)
		r.Get("/blog/{slug}", h.GetPublishedBlogPost)
		r.Get("/research/{slug}", h.GetProjectBySlug)
		r.Get("/products", h.ListPublishedProducts)
	})

	// Pages, sections, revisions.
	r.Route("/pages", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(h.can(rbac.ActionRead, rbac.ResourcePages)).Get("/", h.ListPages)
		r.With(h.can(rbac.ActionCreate, rbac.ResourcePages)).Post("/", h.CreatePage)

		// Section-list blueprints.
		r.Route("/templates", func(r chi.Router) {
			r.With(h.can(rbac.ActionRead, rbac.ResourcePages)).Get("/", h.ListTemplates)
			r.With(h.can(rbac.ActionCreate, rbac.ResourcePages)).Post("/", h.CreateTemplate)
			r.With(h.can(rbac.ActionRead, rbac.ResourcePages)).Get("/{templateID}", h.GetTemplate)
			r.With(h.can(rbac.ActionDelete, rbac.ResourcePages)).Delete("/{templateID}", h.DeleteTemplate)
			r.With(h.can(rbac.ActionCreate, rbac.ResourcePages)).Post("/{templateID}/pages", h.CreatePageFromTemplate)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.With(h.can(rbac.ActionRead, rbac.ResourcePages)).Get("/", h.GetPage)
			r.With(h.can(rbac.ActionUpdate, rbac.ResourcePages)).Put("/", h.UpdatePage)
			r.With(h.can(rbac.ActionDelete, rbac.ResourcePages)).Delete("/", h.DeletePage)
			r.With(h.can(rbac.ActionPublish, rbac.ResourcePages)).Post("/publish", h.PublishPage)
			r.With(h.can(rbac.ActionPublish, rbac.ResourcePages)).Post("/unpublish", h.UnpublishPage)

			r.Route("/sections", func(r chi.Router) {
				r.Use(h.can(rbac.ActionUpdate, rbac.ResourcePages))
				r.Post("/", h.AddSection)
				r.Post("/reorder", h.ReorderSections)
				r.Patch("/{sectionID}", h.UpdateSection)
				r.Delete("/{sectionID}", h.DeleteSection)
				r.Post("/{sectionID}/move", h.MoveSection)
			})

			r.Route("/revisions", func(r chi.Router) {
				r.With(h.can(rbac.ActionRead, rbac.ResourceRevisions)).Get("/", h.ListRevisions)
				r.With(h.can(rbac.ActionRead, rbac.ResourceRevisions)).Get("/{revisionID}", h.GetRevision)
				r.With(h.can(rbac.ActionUpdate, rbac.ResourcePages)).Post("/{revisionID}/restore", h.RestoreRevision)
			})
		})
	})

	// Theme settings.
	r.Route("/theme", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(h.can(rbac.ActionRead, rbac.ResourceThemes)).Get("/", h.GetTheme)
		r.With(h.can(rbac.ActionRead, rbac.ResourceThemes)).Get("/presets", h.ListThemePresets)
		r.With(h.can(rbac.ActionRead, rbac.ResourceThemes)).Get("/export", h.ExportTheme)

		r.Group(func(r chi.Router) {
			r.Use(h.can(rbac.ActionUpdate, rbac.ResourceThemes))
			r.Put("/", h.SetTheme)
			r.Post("/presets/apply", h.ApplyThemePreset)
			r.Patch("/field", h.SetThemeField)
			r.Post("/import", h.ImportTheme)
		})
	})

	// Research projects with nested publications and milestones.
	r.Route("/research/projects", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(h.can(rbac.ActionRead, rbac.ResourceProjects)).Get("/", h.ListProjects)
		r.With(h.can(rbac.ActionCreate, rbac.ResourceProjects)).Post("/", h.CreateProject)

		r.Route("/{id}", func(r chi.Router) {
			r.With(h.can(rbac.ActionRead, rbac.ResourceProjects)).Get("/", h.GetProject)
			// Update is owner-conditioned for researchers; the handler
			// checks the permission with the loaded project.
			r.Put("/", h.UpdateProject)
			r.With(h.can(rbac.ActionDelete, rbac.ResourceProjects)).Delete("/", h.DeleteProject)

			r.Route("/publications", func(r chi.Router) {
				r.With(h.can(rbac.ActionRead, rbac.ResourcePublications)).Get("/", h.ListPublications)
				r.With(h.can(rbac.ActionCreate, rbac.ResourcePublications)).Post("/", h.CreatePublication)
				r.With(h.can(rbac.ActionRead, rbac.ResourcePublications)).Get("/{pubID}", h.GetPublication)
				r.With(h.can(rbac.ActionUpdate, rbac.ResourcePublications)).Put("/{pubID}", h.UpdatePublication)
				r.With(h.can(rbac.ActionDelete, rbac.ResourcePublications)).Delete("/{pubID}", h.DeletePublication)
			})

			r.Route("/milestones", func(r chi.Router) {
				r.With(h.can(rbac.ActionRead, rbac.ResourceMilestones)).Get("/", h.ListMilestones)
				r.With(h.can(rbac.ActionCreate, rbac.ResourceMilestones)).Post("/", h.CreateMilestone)
				r.With(h.can(rbac.ActionRead, rbac.ResourceMilestones)).Get("/{milestoneID}", h.GetMilestone)
				r.With(h.can(rbac.ActionUpdate, rbac.ResourceMilestones)).Put("/{milestoneID}", h.UpdateMilestone)
				r.With(h.can(rbac.ActionDelete, rbac.ResourceMilestones)).Delete("/{milestoneID}", h.DeleteMilestone)
			})
		})
	})

	// Blog.
	r.Route("/blog/posts", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(h.can(rbac.ActionRead, rbac.ResourceBlogPosts)).Get("/", h.ListBlogPosts)
		r.With(h.can(rbac.ActionCreate, rbac.ResourceBlogPosts)).Post("/", h.CreateBlogPost)

		r.Route("/{id}", func(r chi.Router) {
			r.With(h.can(rbac.ActionRead, rbac.ResourceBlogPosts)).Get("/", h.GetBlogPost)
			// Update and delete are owner-conditioned for instructors;
			// the handlers check the permission with the loaded post.
			r.Put("/", h.UpdateBlogPost)
			r.Delete("/", h.DeleteBlogPost)
			r.With(h.can(rbac.ActionPublish, rbac.ResourceBlogPosts)).Post("/publish", h.PublishBlogPost)
			r.With(h.can(rbac.ActionPublish, rbac.ResourceBlogPosts)).Post("/unpublish", h.UnpublishBlogPost)
		})
	})

	// Products.
	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(h.can(rbac.ActionRead, rbac.ResourceProducts)).Get("/", h.ListProducts)
		r.With(h.can(rbac.ActionCreate, rbac.ResourceProducts)).Post("/", h.CreateProduct)
		r.With(h.can(rbac.ActionRead, rbac.ResourceProducts)).Get("/{id}", h.GetProduct)
		r.With(h.can(rbac.ActionUpdate, rbac.ResourceProducts)).Put("/{id}", h.UpdateProduct)
		r.With(h.can(rbac.ActionDelete, rbac.ResourceProducts)).Delete("/{id}", h.DeleteProduct)
	})

	// Media library.
	r.Route("/media", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(h.can(rbac.ActionRead, rbac.ResourceMedia)).Get("/", h.ListMedia)
		r.With(h.can(rbac.ActionCreate, rbac.ResourceMedia)).Post("/", h.UploadMedia)
		r.With(h.can(rbac.ActionRead, rbac.ResourceMedia)).Get("/{id}", h.GetMedia)
		r.With(h.can(rbac.ActionDelete, rbac.ResourceMedia)).Delete("/{id}", h.DeleteMedia)
	})

	// User administration.
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(h.can(rbac.ActionManage, rbac.ResourceUsers))

		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Put("/{id}/password", h.ChangeUserPassword)
		r.Delete("/{id}", h.DeleteUser)
	})

	// Audit log.
	r.Route("/events", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(h.can(rbac.ActionRead, rbac.ResourceEvents)).Get("/", h.ListEvents)
	})

	// Whole-site export/import.
	r.Route("/site", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(h.can(rbac.ActionManage, rbac.ResourceSite))

		r.Get("/export", h.ExportSite)
		r.Post("/import", h.ImportSite)
	})

	return r
}

// can is Authorize with denied attempts recorded in the audit log.
func (h *Handler) can(action, resource string) func(http.Handler) http.Handler {
	return middleware.AuthorizeWithEventLog(action, resource, h.events)
}
