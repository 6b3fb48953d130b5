// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shopadmin/internal/models"
)

// PostStore manages posts in the database.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, body, status, category_id, published_at, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status,
		&p.CategoryID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new post and returns it. PublishedAt is stamped when
// the post arrives already published.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	row := s.db.QueryRow(`
		INSERT INTO posts (title, slug, body, status, category_id, published_at)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN $4 = 'published' THEN NOW() ELSE NULL END)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Body, p.Status, p.CategoryID,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindAll returns a page of posts, newest first.
func (s *PostStore) FindAll(skip, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// FindByCategory returns a page of posts assigned to a category, newest first.
func (s *PostStore) FindByCategory(categoryID uuid.UUID, skip, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE category_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, categoryID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// UpdateBySlug rewrites a post's mutable fields and returns the updated
// row, or nil if the slug matched nothing. The published timestamp is
// stamped on the first transition to published and kept thereafter.
func (s *PostStore) UpdateBySlug(slug string, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRow(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, status = $4, category_id = $5,
			published_at = CASE
				WHEN $4 = 'published' AND published_at IS NULL THEN NOW()
				ELSE published_at
			END,
			updated_at = NOW()
		WHERE slug = $6
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Body, p.Status, p.CategoryID, slug,
	)
	result, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return result, nil
}

// DeleteBySlug removes a post. Reports whether a row matched.
func (s *PostStore) DeleteBySlug(slug string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE slug = $1`, slug)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return n > 0, nil
}

// SlugExists reports whether any post owns the slug.
func (s *PostStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post slug exists: %w", err)
	}
	return exists, nil
}
