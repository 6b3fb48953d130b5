// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is a node in the hierarchical product-category tree.
// The authoritative edge is always ParentID; Children is a denormalized
// back-reference kept for read convenience and never trusted for
// correctness. Path and Level are derived from the parent chain: a root
// has Path "" and Level 0, a child has Path joined from its ancestors'
// slugs and Level parent+1.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Children  UUIDList   `json:"children"`
	Path      string     `json:"path"`
	Level     int        `json:"level"`
	SortOrder int        `json:"sort_order"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CategoryTree is a category with its subtree materialized. The nested
// Children field replaces the flat id list on the embedded record.
type CategoryTree struct {
	Category
	Children []*CategoryTree `json:"children"`
}

// UUIDList is a list of category ids stored as a jsonb document column.
type UUIDList []uuid.UUID

// Value implements driver.Valuer, serializing the list as a JSON array.
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for jsonb columns.
func (l *UUIDList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported children column type %T", src)
}

// Contains reports whether id is present in the list.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
