// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/notify"
	"inkpress/internal/store"
)

// captureNotifier records messages instead of delivering them.
type captureNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (c *captureNotifier) Send(_ context.Context, msg notify.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *captureNotifier) all() []notify.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Message(nil), c.messages...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// newTestRouter wires the full handler surface against the test database.
func newTestRouter(t *testing.T, db *sql.DB) (chi.Router, *captureNotifier) {
	t.Helper()

	tax := store.NewTaxonomyStore(db, 5, 15)
	posts := store.NewPostStore(db, tax)
	comments := store.NewCommentStore(db)
	votes := store.NewVoteStore(db)
	notifier := &captureNotifier{}

	r := chi.NewRouter()
	p := NewPosts(db, posts, tax)
	tx := NewTaxonomies(tax)
	c := NewComments(comments)
	v := NewVotes(votes, posts, comments, notifier, "http://localhost:8080", "admin@example.com")

	r.Get("/posts", p.List)
	r.Get("/posts/{id}", p.Get)
	r.Post("/posts", p.Create)
	r.Put("/posts/{id}", p.Update)
	r.Post("/taxonomies", tx.Create)
	r.Get("/taxonomies", tx.List)
	r.Post("/comments", c.Create)
	r.Put("/comments/{id}/status", c.ChangeStatus)
	r.Post("/votes", v.Cast)
	r.Get("/votes", v.List)
	return r, notifier
}

// doJSON performs a request with a JSON body and decodes the JSON reply
// into out when it is non-nil.
func doJSON(t *testing.T, h http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w
}

// cleanPosts removes test posts and their dependents by title.
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

// cleanTerms removes test taxonomy terms by slug.
func cleanTerms(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM taxonomy_relationships WHERE term_id IN (SELECT taxonomy_id FROM taxonomies WHERE slug = $1)", slug)
		db.Exec("DELETE FROM taxonomies WHERE slug = $1", slug)
	}
}
