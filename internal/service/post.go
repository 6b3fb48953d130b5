// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"shopadmin/internal/markdown"
	"shopadmin/internal/models"
	"shopadmin/internal/slug"
)

// Post errors surfaced to callers.
var (
	ErrPostNotFound  = errors.New("post does not exist")
	ErrPostSlugTaken = errors.New("post slug already exists")
	ErrBadPostStatus = errors.New("status must be draft or published")
)

// PostStore is the persistence surface PostService needs.
type PostStore interface {
	Create(p *models.Post) (*models.Post, error)
	FindBySlug(slug string) (*models.Post, error)
	FindAll(skip, limit int) ([]models.Post, error)
	FindByCategory(categoryID uuid.UUID, skip, limit int) ([]models.Post, error)
	UpdateBySlug(slug string, p *models.Post) (*models.Post, error)
	DeleteBySlug(slug string) (bool, error)
	SlugExists(slug string) (bool, error)
}

// PostService exposes post CRUD. Category assignments are validated
// against the live category collection.
type PostService struct {
	posts      PostStore
	categories CategoryStore
}

// NewPostService wires a post service over its stores.
func NewPostService(posts PostStore, categories CategoryStore) *PostService {
	return &PostService{posts: posts, categories: categories}
}

// CreatePostParams carries caller-supplied fields for Create.
type CreatePostParams struct {
	Title      string
	Slug       string
	Body       string
	Status     string
	CategoryID *uuid.UUID
}

// Create persists a new post, minting a slug when none is supplied.
func (s *PostService) Create(p CreatePostParams) (*models.Post, error) {
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	if p.Status != models.PostStatusDraft && p.Status != models.PostStatusPublished {
		return nil, ErrBadPostStatus
	}

	if err := s.checkCategory(p.CategoryID); err != nil {
		return nil, err
	}

	slugValue := p.Slug
	if slugValue == "" {
		minted, err := slug.Unique(p.Title, s.posts.SlugExists)
		if err != nil {
			return nil, err
		}
		slugValue = minted
	} else {
		taken, err := s.posts.SlugExists(slugValue)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPostSlugTaken
		}
	}

	return s.posts.Create(&models.Post{
		Title:      p.Title,
		Slug:       slugValue,
		Body:       p.Body,
		Status:     p.Status,
		CategoryID: p.CategoryID,
	})
}

// UpdatePostParams carries the partial fields for Update. Nil pointers
// leave the current value untouched; Category follows the same
// tri-state convention as category re-parenting.
type UpdatePostParams struct {
	Title    *string
	Slug     *string
	Body     *string
	Status   *string
	Category ParentPatch
}

// Update applies a partial update to the post owning slugValue.
func (s *PostService) Update(slugValue string, p UpdatePostParams) (*models.Post, error) {
	current, err := s.posts.FindBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrPostNotFound
	}

	if p.Slug != nil && *p.Slug != current.Slug {
		taken, err := s.posts.SlugExists(*p.Slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPostSlugTaken
		}
	}

	merged := *current
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Slug != nil {
		merged.Slug = *p.Slug
	}
	if p.Body != nil {
		merged.Body = *p.Body
	}
	if p.Status != nil {
		if *p.Status != models.PostStatusDraft && *p.Status != models.PostStatusPublished {
			return nil, ErrBadPostStatus
		}
		merged.Status = *p.Status
	}
	if p.Category.Set {
		if err := s.checkCategory(p.Category.ID); err != nil {
			return nil, err
		}
		merged.CategoryID = p.Category.ID
	}

	updated, err := s.posts.UpdateBySlug(slugValue, &merged)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

// FindOne returns a post with its body rendered to HTML.
func (s *PostService) FindOne(slugValue string) (*models.Post, error) {
	p, err := s.posts.FindBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}

	html, err := markdown.ToHTML(p.Body)
	if err != nil {
		// A rendering failure should not hide the post itself.
		slog.Warn("markdown render failed", "slug", p.Slug, "error", err)
	} else {
		p.BodyHTML = html
	}
	return p, nil
}

// FindAll returns a page of posts, optionally filtered by category.
func (s *PostService) FindAll(categoryID *uuid.UUID, page, limit int) ([]models.Post, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	skip := (page - 1) * limit

	if categoryID != nil {
		return s.posts.FindByCategory(*categoryID, skip, limit)
	}
	return s.posts.FindAll(skip, limit)
}

// Delete removes a post.
func (s *PostService) Delete(slugValue string) error {
	ok, err := s.posts.DeleteBySlug(slugValue)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

// checkCategory verifies that an assigned category id resolves to a
// live category. Nil (no category) is always fine.
func (s *PostService) checkCategory(id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	c, err := s.categories.FindByID(*id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}
	return nil
}
