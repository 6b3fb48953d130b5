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

// CategoryStore manages the category collection in the database.
// All read and mutation paths are scoped to non-deleted rows except
// where a method says otherwise. There is deliberately no unique
// constraint on slug and no foreign key on parent_id: slug uniqueness
// is enforced at the service layer against non-deleted rows only (a
// soft-deleted category's slug becomes reusable), and hard deletes
// must not touch surviving children.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, parent_id, children, path, level, sort_order, is_deleted, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Children,
		&c.Path, &c.Level, &c.SortOrder, &c.IsDeleted,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves a non-deleted category by id. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND NOT is_deleted`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a non-deleted category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND NOT is_deleted LIMIT 1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByParent returns the non-deleted direct children of a category,
// ordered by sort_order ascending, ties broken by creation time
// descending (newest first).
func (s *CategoryStore) FindByParent(parentID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+`
		FROM categories
		WHERE parent_id = $1 AND NOT is_deleted
		ORDER BY sort_order, created_at DESC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("find categories by parent: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindAll returns a page of non-deleted categories ordered by sort_order
// ascending, ties by creation time descending.
func (s *CategoryStore) FindAll(skip, limit int) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+`
		FROM categories
		WHERE NOT is_deleted
		ORDER BY sort_order, created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, parent_id, children, path, level, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.ParentID, c.Children, c.Path, c.Level, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// UpdateBySlug rewrites a non-deleted category's mutable fields and
// returns the updated row, or nil if no non-deleted row matched.
func (s *CategoryStore) UpdateBySlug(slug string, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, parent_id = $3, path = $4,
			level = $5, sort_order = $6, updated_at = NOW()
		WHERE slug = $7 AND NOT is_deleted
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.ParentID, c.Path, c.Level, c.SortOrder, slug,
	)
	result, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return result, nil
}

// SoftDeleteBySlug flips the is_deleted flag. Reports whether a live
// row was actually flagged; an already-deleted or missing slug yields
// false, which makes repeated soft deletes observable to the caller.
func (s *CategoryStore) SoftDeleteBySlug(slug string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE categories SET is_deleted = TRUE, updated_at = NOW()
		WHERE slug = $1 AND NOT is_deleted
	`, slug)
	if err != nil {
		return false, fmt.Errorf("soft delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete category: %w", err)
	}
	return n > 0, nil
}

// HardDeleteBySlug physically removes a non-deleted row. Children are
// not cascaded: they keep pointing at the removed id.
func (s *CategoryStore) HardDeleteBySlug(slug string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM categories WHERE slug = $1 AND NOT is_deleted`, slug)
	if err != nil {
		return false, fmt.Errorf("hard delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("hard delete category: %w", err)
	}
	return n > 0, nil
}

// SlugExists reports whether a non-deleted category owns the slug.
func (s *CategoryStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND NOT is_deleted)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}
	return exists, nil
}

// AddChildToParent appends childID to the parent's denormalized children
// list. The jsonb containment guard makes the insert idempotent, so
// concurrent appends of the same id cannot duplicate it.
func (s *CategoryStore) AddChildToParent(parentID, childID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories
		SET children = children || to_jsonb($2::text), updated_at = NOW()
		WHERE id = $1 AND NOT children ? $2
	`, parentID, childID.String())
	if err != nil {
		return fmt.Errorf("add child to parent: %w", err)
	}
	return nil
}

// NextSortOrder returns the next sort_order value among the non-deleted
// siblings of the given parent (nil for roots).
func (s *CategoryStore) NextSortOrder(parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRow(
			`SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL AND NOT is_deleted`,
		).Scan(&maxOrder)
	} else {
		err = s.db.QueryRow(
			`SELECT MAX(sort_order) FROM categories WHERE parent_id = $1 AND NOT is_deleted`, *parentID,
		).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
