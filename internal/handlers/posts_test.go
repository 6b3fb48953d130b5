package handlers

import (
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopadmin/internal/models"
	"shopadmin/internal/service"
	"shopadmin/internal/store"
)

// memPostStore is a map-backed PostStore for handler tests.
type memPostStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*models.Post
	order []uuid.UUID
}

func newMemPostStore() *memPostStore {
	return &memPostStore{byID: make(map[uuid.UUID]*models.Post)}
}

func (m *memPostStore) Create(p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *p
	c.ID = uuid.New()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == models.PostStatusPublished {
		c.PublishedAt = &now
	}
	m.byID[c.ID] = &c
	m.order = append(m.order, c.ID)
	out := c
	return &out, nil
}

func (m *memPostStore) FindBySlug(slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.byID {
		if p.Slug == slug {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memPostStore) FindAll(skip, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Newest first.
	var out []models.Post
	for i := len(m.order) - 1; i >= 0; i-- {
		if p, ok := m.byID[m.order[i]]; ok {
			out = append(out, *p)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPostStore) FindByCategory(categoryID uuid.UUID, skip, limit int) ([]models.Post, error) {
	all, err := m.FindAll(0, len(m.byID))
	if err != nil {
		return nil, err
	}
	var out []models.Post
	for _, p := range all {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPostStore) UpdateBySlug(slug string, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.byID {
		if existing.Slug != slug {
			continue
		}
		c := *p
		c.ID = id
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = time.Now()
		c.PublishedAt = existing.PublishedAt
		if c.Status == models.PostStatusPublished && c.PublishedAt == nil {
			now := time.Now()
			c.PublishedAt = &now
		}
		m.byID[id] = &c
		out := c
		return &out, nil
	}
	return nil, nil
}

func (m *memPostStore) DeleteBySlug(slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.byID {
		if p.Slug == slug {
			delete(m.byID, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *memPostStore) SlugExists(slug string) (bool, error) {
	p, err := m.FindBySlug(slug)
	return p != nil, err
}

func newPostRouter(t *testing.T) (chi.Router, *service.CategoryService) {
	t.Helper()

	categories := store.NewMemoryCategoryStore()
	catSvc := service.NewCategoryService(categories)
	svc := service.NewPostService(newMemPostStore(), categories)
	h := NewPosts(svc)

	r := chi.NewRouter()
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{slug}", h.Get)
		r.Patch("/{slug}", h.Update)
		r.Delete("/{slug}", h.Delete)
	})
	return r, catSvc
}

func TestPostCreateDefaultsToDraft(t *testing.T) {
	r, _ := newPostRouter(t)

	rr, envelope := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "Hello World",
		"body":  "first post",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d (body %s)", rr.Code, rr.Body.String())
	}
	data := envelope["data"].(map[string]any)
	if data["status"] != models.PostStatusDraft {
		t.Errorf("status: got %v, want draft", data["status"])
	}
	if data["slug"] != "hello-world" {
		t.Errorf("slug: got %v, want hello-world", data["slug"])
	}
	if data["published_at"] != nil {
		t.Errorf("published_at: got %v, want null", data["published_at"])
	}
}

func TestPostCreateBadStatusRejected(t *testing.T) {
	r, _ := newPostRouter(t)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "X", "status": "archived",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad status: got %d, want 400", rr.Code)
	}
}

func TestPostCreateUnknownCategoryIsNotFound(t *testing.T) {
	r, _ := newPostRouter(t)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "X", "category_id": uuid.NewString(),
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing category: got %d, want 404", rr.Code)
	}
}

func TestPostGetRendersBody(t *testing.T) {
	r, _ := newPostRouter(t)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "Hello", "body": "# Heading",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rr.Code)
	}

	rr, envelope := doJSON(t, r, http.MethodGet, "/api/v1/posts/hello", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got %d", rr.Code)
	}
	data := envelope["data"].(map[string]any)
	html, _ := data["body_html"].(string)
	if html == "" {
		t.Fatal("body_html missing on single-post read")
	}
	if want := "<h1"; !strings.Contains(html, want) {
		t.Errorf("body_html: got %q, want it to contain %q", html, want)
	}
}

func TestPostUpdateDetachCategory(t *testing.T) {
	r, catSvc := newPostRouter(t)

	cat, err := catSvc.Create(service.CreateCategoryParams{Name: "News"})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "Hello", "category_id": cat.ID.String(),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d (body %s)", rr.Code, rr.Body.String())
	}

	rr, envelope := doJSON(t, r, http.MethodPatch, "/api/v1/posts/hello", map[string]any{
		"category_id": nil,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("detach: got %d (body %s)", rr.Code, rr.Body.String())
	}
	if got := envelope["data"].(map[string]any)["category_id"]; got != nil {
		t.Errorf("category_id: got %v, want null", got)
	}
}

func TestPostDeleteTwice(t *testing.T) {
	r, _ := newPostRouter(t)

	rr, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "Hello",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rr.Code)
	}

	rr, _ = doJSON(t, r, http.MethodDelete, "/api/v1/posts/hello", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("delete: got %d, want 200", rr.Code)
	}
	rr, _ = doJSON(t, r, http.MethodDelete, "/api/v1/posts/hello", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rr.Code)
	}
}
