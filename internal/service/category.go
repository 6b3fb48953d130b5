// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service orchestrates category and post operations on top of
// the stores and the hierarchy engine. Every failure it returns is a
// caller-correctable input problem (not found, conflict); nothing here
// retries or recovers locally, and every mutation is a single logical
// document write.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"shopadmin/internal/hierarchy"
	"shopadmin/internal/models"
	"shopadmin/internal/slug"
)

// Category errors surfaced to callers. Not-found conditions map to 404,
// the rest to 409 at the HTTP edge.
var (
	ErrCategoryNotFound = errors.New("category does not exist")
	ErrSlugTaken        = errors.New("slug already exists")
	ErrSelfParent       = errors.New("category cannot be its own parent")
	ErrCycle            = errors.New("cannot set a descendant as parent: this would create a hierarchy cycle")
)

// CategoryStore is the persistence surface the service needs. All
// methods are scoped to non-deleted rows except where the concrete
// store documents otherwise.
type CategoryStore interface {
	FindByID(id uuid.UUID) (*models.Category, error)
	FindBySlug(slug string) (*models.Category, error)
	FindByParent(parentID uuid.UUID) ([]models.Category, error)
	FindAll(skip, limit int) ([]models.Category, error)
	Create(c *models.Category) (*models.Category, error)
	UpdateBySlug(slug string, c *models.Category) (*models.Category, error)
	SoftDeleteBySlug(slug string) (bool, error)
	HardDeleteBySlug(slug string) (bool, error)
	SlugExists(slug string) (bool, error)
	AddChildToParent(parentID, childID uuid.UUID) error
	NextSortOrder(parentID *uuid.UUID) (int, error)
}

// CategoryService exposes create/read/update/delete for the category
// tree, keeping derived fields and structural invariants correct.
type CategoryService struct {
	store  CategoryStore
	engine *hierarchy.Engine
}

// NewCategoryService wires a service over the given store.
func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{
		store:  store,
		engine: hierarchy.NewEngine(store),
	}
}

// CreateCategoryParams carries the caller-supplied fields for Create.
// Slug and SortOrder are optional; ParentID nil means root.
type CreateCategoryParams struct {
	Name      string
	Slug      string
	ParentID  *uuid.UUID
	SortOrder *int
}

// Create persists a new category. When no slug is supplied one is
// minted from the name, unique among non-deleted categories. An
// explicitly supplied slug is taken as given. The parent must resolve
// to a live category or hierarchy.ErrParentNotFound is returned.
func (s *CategoryService) Create(p CreateCategoryParams) (*models.Category, error) {
	slugValue := p.Slug
	if slugValue == "" {
		minted, err := slug.Unique(p.Name, s.store.SlugExists)
		if err != nil {
			return nil, err
		}
		slugValue = minted
	}

	placement, err := s.engine.Resolve(p.ParentID)
	if err != nil {
		return nil, err
	}

	order := 0
	if p.SortOrder != nil {
		order = *p.SortOrder
	} else {
		order, err = s.store.NextSortOrder(placement.ParentID)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.store.Create(&models.Category{
		Name:      p.Name,
		Slug:      slugValue,
		ParentID:  placement.ParentID,
		Path:      placement.Path,
		Level:     placement.Level,
		SortOrder: order,
	})
	if err != nil {
		return nil, err
	}

	// Best effort: the parent pointer just written is authoritative, so
	// a failed back-reference never rolls the creation back.
	if placement.ParentID != nil {
		if err := s.store.AddChildToParent(*placement.ParentID, created.ID); err != nil {
			slog.Warn("failed to register child on parent",
				"parent_id", placement.ParentID,
				"child_id", created.ID,
				"error", err,
			)
		}
	}

	return created, nil
}

// ParentPatch is a tri-state parent field for updates: not Set keeps
// the current parent, Set with nil ID detaches to root, Set with an ID
// re-parents.
type ParentPatch struct {
	Set bool
	ID  *uuid.UUID
}

// UpdateCategoryParams carries the partial fields for Update. Nil
// pointers leave the current value untouched.
type UpdateCategoryParams struct {
	Name      *string
	Slug      *string
	SortOrder *int
	Parent    ParentPatch
}

// Update applies a partial update to the category owning slugValue and
// recomputes its path and level. Re-parenting is cycle-checked first.
// Descendants keep their stored path and level; they are not cascaded.
func (s *CategoryService) Update(slugValue string, p UpdateCategoryParams) (*models.Category, error) {
	current, err := s.store.FindBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrCategoryNotFound
	}

	if p.Slug != nil && *p.Slug != current.Slug {
		taken, err := s.store.SlugExists(*p.Slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
	}

	if p.Parent.Set && p.Parent.ID != nil {
		if *p.Parent.ID == current.ID {
			return nil, ErrSelfParent
		}
		cycle, err := s.engine.DetectCycle(current.ID, *p.Parent.ID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, ErrCycle
		}
	}

	// Parent is sticky unless explicitly patched; an explicit null
	// detaches the category back to a root.
	var placement hierarchy.Placement
	switch {
	case p.Parent.Set && p.Parent.ID == nil:
		placement = hierarchy.Placement{}
	case p.Parent.Set:
		placement, err = s.engine.Resolve(p.Parent.ID)
	default:
		placement, err = s.engine.Resolve(current.ParentID)
	}
	if err != nil {
		return nil, err
	}

	merged := *current
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Slug != nil {
		merged.Slug = *p.Slug
	}
	if p.SortOrder != nil {
		merged.SortOrder = *p.SortOrder
	}
	merged.ParentID = placement.ParentID
	merged.Path = placement.Path
	merged.Level = placement.Level

	updated, err := s.store.UpdateBySlug(slugValue, &merged)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCategoryNotFound
	}
	return updated, nil
}

// FindOne returns the full subtree rooted at the category owning the slug.
func (s *CategoryService) FindOne(slugValue string) (*models.CategoryTree, error) {
	c, err := s.store.FindBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return s.engine.BuildTree(c)
}

// FindAll returns a page of non-deleted categories. Page and limit are
// normalized to sane values: page >= 1, 1 <= limit <= 100, default 20.
func (s *CategoryService) FindAll(page, limit int) ([]models.Category, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	items, err := s.store.FindAll((page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("find all categories: %w", err)
	}
	return items, nil
}

// SoftDelete flags the category as deleted. Descendants are untouched
// and become unreachable through tree reads until re-parented.
func (s *CategoryService) SoftDelete(slugValue string) error {
	ok, err := s.store.SoftDeleteBySlug(slugValue)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// HardDelete physically removes the category. Children are not
// cascaded; they keep their parent pointer to the removed id.
func (s *CategoryService) HardDelete(slugValue string) error {
	ok, err := s.store.HardDeleteBySlug(slugValue)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}
