// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy derives structural fields for category-tree nodes and
// guards the tree's structural invariants: no cycles, no self-parenting,
// path and level always consistent with the parent chain.
package hierarchy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shopadmin/internal/models"
)

// ErrParentNotFound is returned when a candidate parent id does not
// resolve to an existing, non-deleted category.
var ErrParentNotFound = errors.New("parent category does not exist")

// Directory is the read access the engine needs into the category
// collection. Both methods are scoped to non-deleted records;
// FindByID returns nil (not an error) when nothing matches, and
// FindByParent returns children ordered by sort_order ascending,
// ties broken by creation time descending.
type Directory interface {
	FindByID(id uuid.UUID) (*models.Category, error)
	FindByParent(parentID uuid.UUID) ([]models.Category, error)
}

// Placement holds the derived structural fields for a category.
// The zero value describes a root: empty path, level 0, no parent.
type Placement struct {
	Path     string
	Level    int
	ParentID *uuid.UUID
}

// Engine computes placements, detects cycles, and assembles subtrees.
// It holds no state of its own and is safe for concurrent use.
type Engine struct {
	dir Directory
}

// NewEngine returns an Engine reading from dir.
func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir}
}

// Resolve computes the placement of a category under the given candidate
// parent. A nil parent yields the root placement. An unresolvable parent
// yields ErrParentNotFound. Resolve performs no cycle checking: a brand
// new node cannot be its own ancestor, and updates must call DetectCycle
// separately before re-parenting.
func (e *Engine) Resolve(parentID *uuid.UUID) (Placement, error) {
	if parentID == nil {
		return Placement{}, nil
	}

	parent, err := e.dir.FindByID(*parentID)
	if err != nil {
		return Placement{}, fmt.Errorf("resolve parent: %w", err)
	}
	if parent == nil {
		return Placement{}, ErrParentNotFound
	}

	return Placement{
		Path:     ChildPath(parent),
		Level:    parent.Level + 1,
		ParentID: parentID,
	}, nil
}

// ChildPath is the materialized path a child of parent carries: the
// parent's own path extended with the parent's slug, never starting
// with a slash.
func ChildPath(parent *models.Category) string {
	if parent.Path == "" {
		return parent.Slug
	}
	return parent.Path + "/" + parent.Slug
}

// DetectCycle reports whether making candidate the parent of subject
// would close a cycle. It walks upward from candidate through parent
// pointers until it hits subject (cycle), a root, or a missing or
// deleted node (no cycle along this branch). The walk is iterative and
// O(tree height). A revisited node means the stored ancestry already
// loops; that is reported as a cycle so the write is refused rather
// than compounding the corruption.
func (e *Engine) DetectCycle(subject, candidate uuid.UUID) (bool, error) {
	if candidate == subject {
		return true, nil
	}

	seen := map[uuid.UUID]bool{candidate: true}
	current := candidate
	for {
		node, err := e.dir.FindByID(current)
		if err != nil {
			return false, fmt.Errorf("walk ancestors: %w", err)
		}
		if node == nil || node.ParentID == nil {
			return false, nil
		}

		next := *node.ParentID
		if next == subject {
			return true, nil
		}
		if seen[next] {
			return true, nil
		}
		seen[next] = true
		current = next
	}
}

// BuildTree assembles the full subtree rooted at the given category.
// Children are fetched level by level through the Directory, so the
// denormalized id list on the record is never consulted. Traversal is
// read-only and deterministic: each node's children appear in the
// Directory's order (sort_order ascending, ties newest first). No depth
// limit is enforced.
func (e *Engine) BuildTree(root *models.Category) (*models.CategoryTree, error) {
	rootNode := &models.CategoryTree{
		Category: *root,
		Children: []*models.CategoryTree{},
	}

	queue := []*models.CategoryTree{rootNode}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		children, err := e.dir.FindByParent(node.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch children of %q: %w", node.Slug, err)
		}
		for _, child := range children {
			childNode := &models.CategoryTree{
				Category: child,
				Children: []*models.CategoryTree{},
			}
			node.Children = append(node.Children, childNode)
			queue = append(queue, childNode)
		}
	}

	return rootNode, nil
}
