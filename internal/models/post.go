// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is a blog/article entry. A post may be assigned to at most one
// category; the reference is by id and is not enforced by the schema,
// so readers must tolerate a category that has since been soft-deleted.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	CategoryID *uuid.UUID `json:"category_id"`
	// BodyHTML carries the rendered Markdown body on single-post reads.
	BodyHTML    string     `json:"body_html,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
