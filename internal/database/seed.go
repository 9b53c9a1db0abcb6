package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Seed populates the database with initial development data: a welcome
// post attached to a default category. No-op when posts already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	postID := "00000000005eed01"
	termID := "00000000005eed02"

	_, err = tx.Exec(`
		INSERT INTO posts (post_id, post_title, post_raw, post_content, post_excerpt,
		                   post_status, post_type, post_guid, post_created, post_modified)
		VALUES ($1, $2, $3, $4, $5, 'publish', 'post', $6, $7, $7)
	`, postID, "Hello, Inkpress",
		"Welcome to your new blog.", "<p>Welcome to your new blog.</p>",
		"Welcome to your new blog.", "/post/"+postID, now)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO taxonomies (taxonomy_id, taxonomy_type, name, slug, description, status, post_count, created_at, modified_at)
		VALUES ($1, 'category', 'Uncategorized', 'uncategorized', '', 1, 1, $2, $2)
	`, termID, now)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO taxonomy_relationships (post_id, term_id) VALUES ($1, $2)
	`, postID, termID)
	if err != nil {
		return fmt.Errorf("seed insert relationship: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with welcome post")
	return nil
}
