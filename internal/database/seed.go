package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a small
// default category tree. It is a no-op when any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	roots := []struct {
		name string
		slug string
	}{
		{"Uncategorized", "uncategorized"},
		{"News", "news"},
		{"Products", "products"},
	}

	for i, r := range roots {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, sort_order)
			VALUES ($1, $2, $3)
		`, r.name, r.slug, i)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", r.slug, err)
		}
	}

	slog.Info("database seeded with default categories", "count", len(roots))
	return nil
}
