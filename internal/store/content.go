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

const blogPostColumns = `id, title, slug, excerpt, body, status, author_id,
	published_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (model.BlogPost, error) {
	var p model.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Status,
		&p.AuthorID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateBlogPostParams holds the inputs for CreateBlogPost.
type CreateBlogPostParams struct {
	Title     string
	Slug      string
	Excerpt   string
	Body      string
	Status    string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateBlogPost inserts a blog post and returns it.
func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (model.BlogPost, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, body, status, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.Status,
		arg.AuthorID, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("creating blog post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.BlogPost{}, err
	}
	return q.GetBlogPostByID(ctx, id)
}

// GetBlogPostByID returns a blog post by primary key.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanBlogPost(row)
}

// GetBlogPostBySlug returns a blog post by slug.
func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts WHERE slug = ?`, slug)
	return scanBlogPost(row)
}

// ListBlogPostsParams holds filter and pagination inputs for ListBlogPosts.
// Empty Status matches everything.
type ListBlogPostsParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListBlogPosts returns blog posts, newest first.
func (q *Queries) ListBlogPosts(ctx context.Context, arg ListBlogPostsParams) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts
		 WHERE (? = '' OR status = ?)
		 ORDER BY COALESCE(published_at, created_at) DESC LIMIT ? OFFSET ?`,
		arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountBlogPosts returns the number of posts matching the status filter.
func (q *Queries) CountBlogPosts(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE (? = '' OR status = ?)`,
		status, status).Scan(&n)
	return n, err
}

// UpdateBlogPostParams holds the inputs for UpdateBlogPost.
type UpdateBlogPostParams struct {
	ID          int64
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Status      string
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdateBlogPost updates a blog post.
func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = ?, slug = ?, excerpt = ?, body = ?, status = ?,
			published_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.Status,
		arg.PublishedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return fmt.Errorf("updating blog post: %w", err)
	}
	return nil
}

// DeleteBlogPost removes a blog post.
func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting blog post: %w", err)
	}
	return nil
}

const productColumns = `id, name, slug, tagline, description, image_url,
	link_url, published, position, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Tagline, &p.Description,
		&p.ImageURL, &p.LinkURL, &p.Published, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProductParams holds the inputs for CreateProduct.
type CreateProductParams struct {
	Name        string
	Slug        string
	Tagline     string
	Description string
	ImageURL    string
	LinkURL     string
	Published   bool
	Position    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateProduct inserts a product and returns it.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (model.Product, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO products (name, slug, tagline, description, image_url,
			link_url, published, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Slug, arg.Tagline, arg.Description, arg.ImageURL,
		arg.LinkURL, arg.Published, arg.Position, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Product{}, fmt.Errorf("creating product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Product{}, err
	}
	return q.GetProductByID(ctx, id)
}

// GetProductByID returns a product by primary key.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// GetProductBySlug returns a product by slug.
func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	return scanProduct(row)
}

// ListProducts returns all products ordered by position.
func (q *Queries) ListProducts(ctx context.Context, publishedOnly bool) ([]model.Product, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE (? = 0 OR published = 1)
		 ORDER BY position, id`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProductParams holds the inputs for UpdateProduct.
type UpdateProductParams struct {
	ID          int64
	Name        string
	Slug        string
	Tagline     string
	Description string
	ImageURL    string
	LinkURL     string
	Published   bool
	Position    int64
	UpdatedAt   time.Time
}

// UpdateProduct updates a product.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, slug = ?, tagline = ?, description = ?, image_url = ?,
			link_url = ?, published = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		arg.Name, arg.Slug, arg.Tagline, arg.Description, arg.ImageURL,
		arg.LinkURL, arg.Published, arg.Position, arg.UpdatedAt, arg.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}
