// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rbac implements the role-based permission gate consulted
// before mutating admin operations. Can is a pure function over a static
// role table; it performs no I/O and is safe for concurrent use.
package rbac

import "github.com/rcmslabs/rcms/internal/model"

// Actions.
const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionPublish = "publish"
	// ActionManage subsumes every other action on a resource.
	ActionManage = "manage"
)

// Resources.
const (
	ResourcePages        = "pages"
	ResourceRevisions    = "revisions"
	ResourceThemes       = "themes"
	ResourceProjects     = "research_projects"
	ResourcePublications = "publications"
	ResourceMilestones   = "milestones"
	ResourceBlogPosts    = "blog_posts"
	ResourceProducts     = "products"
	ResourceMedia        = "media"
	ResourceUsers        = "users"
	ResourceEvents       = "events"
	// ResourceSite covers whole-site operations: transfer export/import
	// and site-wide configuration.
	ResourceSite = "site"
)

// Session is the acting identity, as carried by the auth layer.
type Session struct {
	UserID int64
	Role   string
}

// Context carries optional attributes of the target resource that
// permission conditions can inspect.
type Context struct {
	OwnerID     int64
	TeamIDs     []int64
	UserTeamIDs []int64
	Status      string
	Tags        []string
}

// Condition restricts a granted permission to a subset of resources.
// The zero value imposes no restriction.
type Condition struct {
	// OwnerOnly grants only when the acting user owns the resource.
	OwnerOnly bool
	// TeamOnly grants only when the acting user shares a team with the resource.
	TeamOnly bool
	// StatusIn grants only when the resource status is listed.
	StatusIn []string
	// RoleIn grants only when the acting role is listed. Used for
	// permissions shared across a role family.
	RoleIn []string
	// HasTag grants only when the resource carries the tag.
	HasTag string
	// CustomCheck is an escape hatch for one-off rules.
	CustomCheck func(sess Session, ctx *Context) bool
}

// Permission grants one action on one resource, optionally conditioned.
type Permission struct {
	Action    string
	Resource  string
	Condition *Condition
}

// roleTable is the static role -> permission mapping. super_admin is not
// listed; it short-circuits to allow in Can.
var roleTable = map[string][]Permission{
	model.RoleUser: {
		{Action: ActionRead, Resource: ResourcePages},
		{Action: ActionRead, Resource: ResourceBlogPosts},
		{Action: ActionRead, Resource: ResourceProducts},
		{Action: ActionRead, Resource: ResourceProjects},
		{Action: ActionRead, Resource: ResourcePublications},
	},
	model.RoleResearcher: {
		{Action: ActionRead, Resource: ResourcePages},
		{Action: ActionRead, Resource: ResourceBlogPosts},
		{Action: ActionRead, Resource: ResourceProducts},
		{Action: ActionManage, Resource: ResourcePublications},
		{Action: ActionManage, Resource: ResourceMilestones},
		{Action: ActionCreate, Resource: ResourceProjects},
		{Action: ActionRead, Resource: ResourceProjects},
		{Action: ActionUpdate, Resource: ResourceProjects, Condition: &Condition{OwnerOnly: true}},
		{Action: ActionCreate, Resource: ResourceMedia},
		{Action: ActionRead, Resource: ResourceMedia},
	},
	model.RoleEditor: {
		{Action: ActionManage, Resource: ResourcePages},
		{Action: ActionManage, Resource: ResourceRevisions},
		{Action: ActionManage, Resource: ResourceBlogPosts},
		{Action: ActionManage, Resource: ResourceProducts},
		{Action: ActionManage, Resource: ResourceMedia},
		{Action: ActionRead, Resource: ResourceProjects},
		{Action: ActionRead, Resource: ResourcePublications},
		{Action: ActionUpdate, Resource: ResourceThemes},
		{Action: ActionRead, Resource: ResourceThemes},
	},
	model.RoleInstructor: {
		{Action: ActionRead, Resource: ResourcePages},
		{Action: ActionCreate, Resource: ResourceBlogPosts},
		{Action: ActionRead, Resource: ResourceBlogPosts},
		{Action: ActionUpdate, Resource: ResourceBlogPosts, Condition: &Condition{OwnerOnly: true}},
		{Action: ActionDelete, Resource: ResourceBlogPosts, Condition: &Condition{OwnerOnly: true, StatusIn: []string{"draft"}}},
		{Action: ActionCreate, Resource: ResourceMedia},
		{Action: ActionRead, Resource: ResourceMedia},
	},
	model.RoleModerator: {
		{Action: ActionRead, Resource: ResourcePages},
		{Action: ActionManage, Resource: ResourceBlogPosts},
		{Action: ActionRead, Resource: ResourceEvents},
		{Action: ActionRead, Resource: ResourceUsers},
		{Action: ActionRead, Resource: ResourceMedia},
		{Action: ActionDelete, Resource: ResourceMedia},
	},
	model.RoleAnalyst: {
		{Action: ActionRead, Resource: ResourcePages},
		{Action: ActionRead, Resource: ResourceBlogPosts},
		{Action: ActionRead, Resource: ResourceProjects},
		{Action: ActionRead, Resource: ResourcePublications},
		{Action: ActionRead, Resource: ResourceMilestones},
		{Action: ActionRead, Resource: ResourceEvents},
	},
	model.RoleAdmin: {
		{Action: ActionManage, Resource: ResourcePages},
		{Action: ActionManage, Resource: ResourceRevisions},
		{Action: ActionManage, Resource: ResourceThemes},
		{Action: ActionManage, Resource: ResourceProjects},
		{Action: ActionManage, Resource: ResourcePublications},
		{Action: ActionManage, Resource: ResourceMilestones},
		{Action: ActionManage, Resource: ResourceBlogPosts},
		{Action: ActionManage, Resource: ResourceProducts},
		{Action: ActionManage, Resource: ResourceMedia},
		{Action: ActionManage, Resource: ResourceUsers},
		{Action: ActionManage, Resource: ResourceSite},
		{Action: ActionRead, Resource: ResourceEvents},
	},
}

// Can reports whether the session may perform action on resource.
// ctx may be nil when no resource attributes apply; conditioned
// permissions that need missing attributes deny.
func Can(sess Session, action, resource string, ctx *Context) bool {
	if sess.Role == model.RoleSuperAdmin {
		return true
	}

	perms, ok := roleTable[sess.Role]
	if !ok {
		return false
	}

	for _, p := range perms {
		if p.Resource != resource {
			continue
		}
		if p.Action != action && p.Action != ActionManage {
			continue
		}
		if conditionHolds(p.Condition, sess, ctx) {
			return true
		}
	}
	return false
}

// conditionHolds evaluates every restriction on a permission; all set
// restrictions must pass.
func conditionHolds(c *Condition, sess Session, ctx *Context) bool {
	if c == nil {
		return true
	}
	if c.OwnerOnly {
		if ctx == nil || ctx.OwnerID == 0 || ctx.OwnerID != sess.UserID {
			return false
		}
	}
	if c.TeamOnly {
		if ctx == nil || !sharesTeam(ctx.UserTeamIDs, ctx.TeamIDs) {
			return false
		}
	}
	if len(c.StatusIn) > 0 {
		if ctx == nil || !contains(c.StatusIn, ctx.Status) {
			return false
		}
	}
	if len(c.RoleIn) > 0 && !contains(c.RoleIn, sess.Role) {
		return false
	}
	if c.HasTag != "" {
		if ctx == nil || !contains(ctx.Tags, c.HasTag) {
			return false
		}
	}
	if c.CustomCheck != nil && !c.CustomCheck(sess, ctx) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func sharesTeam(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
