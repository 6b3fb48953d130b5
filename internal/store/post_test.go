package store

import (
	"testing"

	"github.com/google/uuid"

	"shopadmin/internal/models"
)

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := testSlug("test-post")
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := s.Create(&models.Post{
		Title:  "Test Post",
		Slug:   slug,
		Body:   "Hello",
		Status: models.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.PublishedAt != nil {
		t.Error("draft must not carry published_at")
	}

	found, err := s.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.Title != "Test Post" {
		t.Fatalf("FindBySlug: got %+v", found)
	}
}

func TestPostStorePublishStampsOnce(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := testSlug("test-publish")
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := s.Create(&models.Post{
		Title: "Publish Me", Slug: slug, Status: models.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	merged := *created
	merged.Status = models.PostStatusPublished
	published, err := s.UpdateBySlug(slug, &merged)
	if err != nil {
		t.Fatalf("UpdateBySlug: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected published_at to be stamped")
	}
	firstStamp := *published.PublishedAt

	// A later update keeps the original stamp.
	merged = *published
	merged.Title = "Renamed"
	again, err := s.UpdateBySlug(slug, &merged)
	if err != nil {
		t.Fatalf("UpdateBySlug: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstStamp) {
		t.Errorf("published_at changed: got %v, want %v", again.PublishedAt, firstStamp)
	}
}

func TestPostStoreFindByCategory(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	categoryID := uuid.New()
	inSlug := testSlug("test-cat-in")
	outSlug := testSlug("test-cat-out")
	t.Cleanup(func() { cleanPosts(t, db, inSlug, outSlug) })

	if _, err := s.Create(&models.Post{Title: "In", Slug: inSlug, Status: models.PostStatusDraft, CategoryID: &categoryID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(&models.Post{Title: "Out", Slug: outSlug, Status: models.PostStatusDraft}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := s.FindByCategory(categoryID, 0, 10)
	if err != nil {
		t.Fatalf("FindByCategory: %v", err)
	}
	if len(items) != 1 || items[0].Slug != inSlug {
		t.Errorf("got %+v, want single post %q", items, inSlug)
	}
}

func TestPostStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := testSlug("test-delete")
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	if _, err := s.Create(&models.Post{Title: "Gone", Slug: slug, Status: models.PostStatusDraft}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := s.DeleteBySlug(slug)
	if err != nil {
		t.Fatalf("DeleteBySlug: %v", err)
	}
	if !ok {
		t.Fatal("expected delete to hit a row")
	}

	ok, err = s.DeleteBySlug(slug)
	if err != nil {
		t.Fatalf("DeleteBySlug: %v", err)
	}
	if ok {
		t.Error("second delete must not hit a row")
	}
}
