// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanPosts removes test posts and their dependents by title. Call in
// t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		rows, err := db.Query("SELECT post_id FROM posts WHERE post_title = $1", title)
		if err != nil {
			continue
		}
		var ids []string
		for rows.Next() {
			var id string
			if rows.Scan(&id) == nil {
				ids = append(ids, id)
			}
		}
		rows.Close()
		for _, id := range ids {
			db.Exec(`DELETE FROM votemeta WHERE owner_id IN (
				SELECT vote_id FROM votes WHERE object_id = $1
				   OR object_id IN (SELECT comment_id FROM comments WHERE post_id = $1))`, id)
			db.Exec("DELETE FROM votes WHERE object_id IN (SELECT comment_id FROM comments WHERE post_id = $1)", id)
			db.Exec("DELETE FROM votes WHERE object_id = $1", id)
			db.Exec("DELETE FROM commentmeta WHERE owner_id IN (SELECT comment_id FROM comments WHERE post_id = $1)", id)
			db.Exec("DELETE FROM comments WHERE post_id = $1", id)
			db.Exec("DELETE FROM taxonomy_relationships WHERE post_id = $1", id)
			db.Exec("DELETE FROM postmeta WHERE owner_id = $1", id)
			db.Exec("DELETE FROM posts WHERE post_id = $1", id)
		}
	}
}

// cleanTerms removes test taxonomy terms by slug. Call in t.Cleanup().
func cleanTerms(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM taxonomy_relationships WHERE term_id IN (SELECT taxonomy_id FROM taxonomies WHERE slug = $1)", slug)
		db.Exec("DELETE FROM taxonomies WHERE slug = $1", slug)
	}
}

// mustCreatePost inserts a minimal published post for use as a fixture.
func mustCreatePost(t *testing.T, db *sql.DB, title string) *models.Post {
	t.Helper()
	posts := NewPostStore(db, NewTaxonomyStore(db, 5, 15))
	post, err := posts.Create(PostParams{
		Title:      title,
		RawContent: "Fixture content for " + title + ".",
		Status:     models.PostStatusPublish,
		Type:       models.PostTypePost,
	})
	if err != nil {
		t.Fatalf("create fixture post: %v", err)
	}
	return post
}

// mustCreateTerm inserts a taxonomy term for use as a fixture.
func mustCreateTerm(t *testing.T, db *sql.DB, typ models.TaxonomyType, name, slug string) *models.Taxonomy {
	t.Helper()
	tax := NewTaxonomyStore(db, 5, 15)
	term, err := tax.CreateTerm(TermParams{Type: typ, Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create fixture term: %v", err)
	}
	return term
}
