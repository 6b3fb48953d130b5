// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopadmin/internal/models"
)

// MemoryCategoryStore is an arena-style category store: a flat map from
// id to record guarded by one RWMutex. It mirrors the semantics of
// CategoryStore exactly (non-deleted scoping, ordering, idempotent
// child insert) and backs tests and DB-less development runs.
type MemoryCategoryStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*models.Category
	// seq records insertion order so that equal timestamps still
	// break ties by creation order, newest first.
	seq  map[uuid.UUID]int64
	next int64
}

// NewMemoryCategoryStore returns an empty in-memory store.
func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{
		byID: make(map[uuid.UUID]*models.Category),
		seq:  make(map[uuid.UUID]int64),
	}
}

func (s *MemoryCategoryStore) clone(c *models.Category) *models.Category {
	cp := *c
	cp.Children = append(models.UUIDList{}, c.Children...)
	if c.ParentID != nil {
		id := *c.ParentID
		cp.ParentID = &id
	}
	return &cp
}

// sortSiblings orders records by sort_order ascending, creation order
// descending, matching the SQL store's ORDER BY.
func (s *MemoryCategoryStore) sortSiblings(items []models.Category) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return s.seq[items[i].ID] > s.seq[items[j].ID]
	})
}

// FindByID retrieves a non-deleted category by id. Returns nil if not found.
func (s *MemoryCategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok || c.IsDeleted {
		return nil, nil
	}
	return s.clone(c), nil
}

// FindBySlug retrieves a non-deleted category by slug. Returns nil if not found.
func (s *MemoryCategoryStore) FindBySlug(slug string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c := s.findLiveBySlug(slug); c != nil {
		return s.clone(c), nil
	}
	return nil, nil
}

func (s *MemoryCategoryStore) findLiveBySlug(slug string) *models.Category {
	for _, c := range s.byID {
		if !c.IsDeleted && c.Slug == slug {
			return c
		}
	}
	return nil
}

// FindByParent returns the non-deleted direct children of a category.
func (s *MemoryCategoryStore) FindByParent(parentID uuid.UUID) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []models.Category
	for _, c := range s.byID {
		if !c.IsDeleted && c.ParentID != nil && *c.ParentID == parentID {
			items = append(items, *s.clone(c))
		}
	}
	s.sortSiblings(items)
	return items, nil
}

// FindAll returns a page of non-deleted categories.
func (s *MemoryCategoryStore) FindAll(skip, limit int) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []models.Category
	for _, c := range s.byID {
		if !c.IsDeleted {
			items = append(items, *s.clone(c))
		}
	}
	s.sortSiblings(items)

	if skip >= len(items) {
		return nil, nil
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

// Create inserts a new category and returns it.
func (s *MemoryCategoryStore) Create(c *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := s.clone(c)
	stored.ID = uuid.New()
	stored.IsDeleted = false
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Children == nil {
		stored.Children = models.UUIDList{}
	}

	s.byID[stored.ID] = stored
	s.next++
	s.seq[stored.ID] = s.next
	return s.clone(stored), nil
}

// UpdateBySlug rewrites a non-deleted category's mutable fields.
// Returns nil if no non-deleted row matched.
func (s *MemoryCategoryStore) UpdateBySlug(slug string, c *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findLiveBySlug(slug)
	if stored == nil {
		return nil, nil
	}

	stored.Name = c.Name
	stored.Slug = c.Slug
	stored.Path = c.Path
	stored.Level = c.Level
	stored.SortOrder = c.SortOrder
	stored.UpdatedAt = time.Now()
	if c.ParentID != nil {
		id := *c.ParentID
		stored.ParentID = &id
	} else {
		stored.ParentID = nil
	}
	return s.clone(stored), nil
}

// SoftDeleteBySlug flips the is_deleted flag on a live row.
func (s *MemoryCategoryStore) SoftDeleteBySlug(slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findLiveBySlug(slug)
	if stored == nil {
		return false, nil
	}
	stored.IsDeleted = true
	stored.UpdatedAt = time.Now()
	return true, nil
}

// HardDeleteBySlug removes a live row. No cascade to children.
func (s *MemoryCategoryStore) HardDeleteBySlug(slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findLiveBySlug(slug)
	if stored == nil {
		return false, nil
	}
	delete(s.byID, stored.ID)
	delete(s.seq, stored.ID)
	return true, nil
}

// SlugExists reports whether a non-deleted category owns the slug.
func (s *MemoryCategoryStore) SlugExists(slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLiveBySlug(slug) != nil, nil
}

// AddChildToParent appends childID to the parent's children list if it
// is not already present. Missing parents are ignored, matching the
// best-effort contract of the SQL store.
func (s *MemoryCategoryStore) AddChildToParent(parentID, childID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.byID[parentID]
	if !ok {
		return nil
	}
	if !parent.Children.Contains(childID) {
		parent.Children = append(parent.Children, childID)
		parent.UpdatedAt = time.Now()
	}
	return nil
}

// NextSortOrder returns one past the highest sort_order among the
// non-deleted siblings of parentID (nil for roots).
func (s *MemoryCategoryStore) NextSortOrder(parentID *uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := -1
	for _, c := range s.byID {
		if c.IsDeleted {
			continue
		}
		switch {
		case parentID == nil && c.ParentID != nil:
			continue
		case parentID != nil && (c.ParentID == nil || *c.ParentID != *parentID):
			continue
		}
		if c.SortOrder > max {
			max = c.SortOrder
		}
	}
	return max + 1, nil
}
