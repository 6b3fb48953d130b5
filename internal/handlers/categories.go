// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopadmin/internal/hierarchy"
	"shopadmin/internal/models"
	"shopadmin/internal/service"
)

// Categories serves the category tree API.
type Categories struct {
	service  *service.CategoryService
	validate *validator.Validate
}

// NewCategories returns the category handler group.
func NewCategories(svc *service.CategoryService) *Categories {
	return &Categories{
		service:  svc,
		validate: validator.New(),
	}
}

type createCategoryRequest struct {
	Name      string         `json:"name" validate:"required,min=1,max=100"`
	Slug      string         `json:"slug" validate:"omitempty,max=300"`
	ParentID  optionalString `json:"parent_id" validate:"-"`
	SortOrder *int           `json:"sort_order" validate:"-"`
}

type updateCategoryRequest struct {
	Name      *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Slug      *string        `json:"slug" validate:"omitempty,min=1,max=300"`
	ParentID  optionalString `json:"parent_id" validate:"-"`
	SortOrder *int           `json:"sort_order" validate:"-"`
}

// parseParentID turns a textual parent id into a uuid. An id that does
// not parse is reported the same way as a parent that does not exist:
// not resolvable means not found.
func parseParentID(value string) (*uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, hierarchy.ErrParentNotFound
	}
	return &id, nil
}

// Create handles POST /api/v1/categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	params := service.CreateCategoryParams{
		Name:      req.Name,
		Slug:      req.Slug,
		SortOrder: req.SortOrder,
	}
	if req.ParentID.Set && req.ParentID.Value != nil {
		id, err := parseParentID(*req.ParentID.Value)
		if err != nil {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		params.ParentID = id
	}

	created, err := h.service.Create(params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Category created successfully", created)
}

// Update handles PATCH /api/v1/categories/{slug}.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	params := service.UpdateCategoryParams{
		Name:      req.Name,
		Slug:      req.Slug,
		SortOrder: req.SortOrder,
	}
	if req.ParentID.Set {
		params.Parent.Set = true
		if req.ParentID.Value != nil {
			id, err := parseParentID(*req.ParentID.Value)
			if err != nil {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			params.Parent.ID = id
		}
	}

	updated, err := h.service.Update(chi.URLParam(r, "slug"), params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Category updated successfully", updated)
}

// Get handles GET /api/v1/categories/{slug}, returning the full subtree.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.FindOne(chi.URLParam(r, "slug"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Category retrieved successfully", tree)
}

// List handles GET /api/v1/categories with page/limit query parameters.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	items, err := h.service.FindAll(page, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	respond(w, http.StatusOK, "Categories retrieved successfully", items)
}

// SoftDelete handles DELETE /api/v1/categories/{slug}.
func (h *Categories) SoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SoftDelete(chi.URLParam(r, "slug")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Category deleted successfully", nil)
}

// HardDelete handles DELETE /api/v1/categories/{slug}/permanent.
func (h *Categories) HardDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HardDelete(chi.URLParam(r, "slug")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, "Category permanently deleted", nil)
}

// respondServiceError maps service errors onto HTTP statuses.
func (h *Categories) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, hierarchy.ErrParentNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrSelfParent),
		errors.Is(err, service.ErrCycle):
		respondError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("category request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
