// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopadmin/internal/models"
	"shopadmin/internal/service"
)

// Posts serves the post API.
type Posts struct {
	service  *service.PostService
	validate *validator.Validate
}

// NewPosts returns the post handler group.
func NewPosts(svc *service.PostService) *Posts {
	return &Posts{
		service:  svc,
		validate: validator.New(),
	}
}

type createPostRequest struct {
	Title      string         `json:"title" validate:"required,min=1,max=300"`
	Slug       string         `json:"slug" validate:"omitempty,max=300"`
	Body       string         `json:"body" validate:"max=100000"`
	Status     string         `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID optionalString `json:"category_id" validate:"-"`
}

type updatePostRequest struct {
	Title      *string        `json:"title" validate:"omitempty,min=1,max=300"`
	Slug       *string        `json:"slug" validate:"omitempty,min=1,max=300"`
	Body       *string        `json:"body" validate:"omitempty,max=100000"`
	Status     *string        `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID optionalString `json:"category_id" validate:"-"`
}

// Create handles POST /api/v1/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	params := service.CreatePostParams{
		Title:  req.Title,
		Slug:   req.Slug,
		Body:   req.Body,
		Status: req.Status,
	}
	if req.CategoryID.Set && req.CategoryID.Value != nil {
		id, err := uuid.Parse(*req.CategoryID.Value)
		if err != nil {
			respondError(w, http.StatusNotFound, service.ErrCategoryNotFound.Error())
			return
		}
		params.CategoryID = &id
	}

	created, err := h.service.Create(params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Post created successfully", created)
}

// Update handles PATCH /api/v1/posts/{slug}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	params := service.UpdatePostParams{
		Title:  req.Title,
		Slug:   req.Slug,
		Body:   req.Body,
		Status: req.Status,
	}
	if req.CategoryID.Set {
		params.Category.Set = true
		if req.CategoryID.Value != nil {
			id, err := uuid.Parse(*req.CategoryID.Value)
			if err != nil {
				respondError(w, http.StatusNotFound, service.ErrCategoryNotFound.Error())
				return
			}
			params.Category.ID = &id
		}
	}

	updated, err := h.service.Update(chi.URLParam(r, "slug"), params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Post updated successfully", updated)
}

// Get handles GET /api/v1/posts/{slug}.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.FindOne(chi.URLParam(r, "slug"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Post retrieved successfully", p)
}

// List handles GET /api/v1/posts with optional category filter.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	var categoryID *uuid.UUID
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(w, http.StatusNotFound, service.ErrCategoryNotFound.Error())
			return
		}
		categoryID = &id
	}

	items, err := h.service.FindAll(categoryID, page, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}
	respond(w, http.StatusOK, "Posts retrieved successfully", items)
}

// Delete handles DELETE /api/v1/posts/{slug}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "slug")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Post deleted successfully", nil)
}

// respondServiceError maps post service errors onto HTTP statuses.
func (h *Posts) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPostSlugTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBadPostStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("post request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
