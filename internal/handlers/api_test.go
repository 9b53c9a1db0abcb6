// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func TestPostLifecycleAPI(t *testing.T) {
	db := testDB(t)
	r, _ := newTestRouter(t, db)

	marker := uuid.NewString()[:8]
	title := "API Lifecycle " + marker
	catSlug := "api-cat-" + marker
	t.Cleanup(func() {
		cleanPosts(t, db, title, title+" v2")
		cleanTerms(t, db, catSlug)
	})

	var term models.Taxonomy
	w := doJSON(t, r, "POST", "/taxonomies", termInput{Type: "category", Name: "API Cat " + marker, Slug: catSlug}, &term)
	if w.Code != http.StatusCreated {
		t.Fatalf("create term: got %d, body %s", w.Code, w.Body.String())
	}

	var view models.PostView
	w = doJSON(t, r, "POST", "/posts", postInput{
		Title:      title,
		Content:    "Hello **api** world.",
		Status:     "publish",
		Categories: []string{term.ID},
		Meta:       map[string]string{"copyright_type": "cc-by"},
	}, &view)
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: got %d, body %s", w.Code, w.Body.String())
	}
	if len(view.Categories) != 1 || view.Categories[0].ID != term.ID {
		t.Errorf("categories: got %+v, want [%s]", view.Categories, term.ID)
	}
	if view.Meta["copyright_type"] != "cc-by" {
		t.Errorf("meta: got %v", view.Meta)
	}
	if !strings.Contains(view.Post.Content, "<strong>api</strong>") {
		t.Errorf("content not rendered: %q", view.Post.Content)
	}

	var fetched models.PostView
	w = doJSON(t, r, "GET", "/posts/"+view.Post.ID, nil, &fetched)
	if w.Code != http.StatusOK {
		t.Fatalf("get post: got %d", w.Code)
	}
	if fetched.Post.ID != view.Post.ID {
		t.Errorf("fetched id: got %s, want %s", fetched.Post.ID, view.Post.ID)
	}

	// Update replaces the category set; an empty list detaches everything.
	var updated models.PostView
	w = doJSON(t, r, "PUT", "/posts/"+view.Post.ID, postInput{
		Title:   title + " v2",
		Content: "Hello again.",
		Status:  "publish",
	}, &updated)
	if w.Code != http.StatusOK {
		t.Fatalf("update post: got %d, body %s", w.Code, w.Body.String())
	}
	if updated.Post.Title != title+" v2" {
		t.Errorf("title: got %q", updated.Post.Title)
	}
	if len(updated.Categories) != 0 {
		t.Errorf("categories after detach: got %+v", updated.Categories)
	}
}

func TestPostAPIFailuresAreAtomic(t *testing.T) {
	db := testDB(t)
	r, _ := newTestRouter(t, db)

	title := "API Atomic " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, title) })

	// A missing category id fails the whole create: no post row sticks.
	w := doJSON(t, r, "POST", "/posts", postInput{
		Title:      title,
		Content:    "body",
		Status:     "publish",
		Categories: []string{"ffffffffffffffff"},
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("create: got %d, want 404", w.Code)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM posts WHERE post_title = $1`, title).Scan(&count); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count != 0 {
		t.Errorf("post survived failed transaction: %d rows", count)
	}
}

func TestCommentAPI(t *testing.T) {
	db := testDB(t)
	r, _ := newTestRouter(t, db)

	title := "API Comment " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, title) })

	var view models.PostView
	doJSON(t, r, "POST", "/posts", postInput{Title: title, Content: "body", Status: "publish"}, &view)

	var comment models.Comment
	w := doJSON(t, r, "POST", "/comments", commentInput{
		PostID:     view.Post.ID,
		AuthorName: "Reader",
		Content:    "Great piece.",
	}, &comment)
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: got %d, body %s", w.Code, w.Body.String())
	}
	if comment.Status != models.CommentStatusPending {
		t.Errorf("status: got %q, want pending", comment.Status)
	}

	w = doJSON(t, r, "PUT", "/comments/"+comment.ID+"/status", statusInput{Status: "normal"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("change status: got %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, "PUT", "/comments/"+comment.ID+"/status", statusInput{Status: "bogus"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus status: got %d, want 400", w.Code)
	}

	w = doJSON(t, r, "POST", "/comments", commentInput{PostID: "ffffffffffffffff", AuthorName: "X", Content: "void"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("comment on missing post: got %d, want 404", w.Code)
	}
}

func TestVoteAPI(t *testing.T) {
	db := testDB(t)
	r, notifier := newTestRouter(t, db)

	title := "API Vote " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, title) })

	var view models.PostView
	doJSON(t, r, "POST", "/posts", postInput{Title: title, Content: "body", Status: "publish"}, &view)

	var comment models.Comment
	doJSON(t, r, "POST", "/comments", commentInput{
		PostID:      view.Post.ID,
		AuthorName:  "Reader",
		AuthorEmail: "reader@example.com",
		Content:     "Interesting.",
	}, &comment)

	var vote models.Vote
	w := doJSON(t, r, "POST", "/votes", voteInput{
		ObjectType: "comment",
		ObjectID:   comment.ID,
		Result:     1,
		Voter:      &models.Voter{Name: "Ana"},
	}, &vote)
	if w.Code != http.StatusCreated {
		t.Fatalf("cast vote: got %d, body %s", w.Code, w.Body.String())
	}

	// Admin and comment author both get a notice.
	msgs := notifier.all()
	if len(msgs) != 2 {
		t.Fatalf("notices: got %d, want 2", len(msgs))
	}
	recipients := map[string]bool{}
	for _, m := range msgs {
		recipients[m.To] = true
	}
	if !recipients["admin@example.com"] || !recipients["reader@example.com"] {
		t.Errorf("recipients: got %v", recipients)
	}

	// Dislikes never apply to posts.
	w = doJSON(t, r, "POST", "/votes", voteInput{ObjectType: "post", ObjectID: view.Post.ID, Result: -1}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("post dislike: got %d, want 400", w.Code)
	}

	// Missing target rolls back and reports not found.
	w = doJSON(t, r, "POST", "/votes", voteInput{ObjectType: "post", ObjectID: "ffffffffffffffff", Result: 1}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("vote on missing post: got %d, want 404", w.Code)
	}
}

func TestPasswordProtectedPostAPI(t *testing.T) {
	db := testDB(t)
	r, _ := newTestRouter(t, db)

	title := "API Password " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, title) })

	var view models.PostView
	w := doJSON(t, r, "POST", "/posts", postInput{
		Title:    title,
		Content:  "secret",
		Status:   "password",
		Password: "open-sesame",
	}, &view)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, "GET", "/posts/"+view.Post.ID, nil, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("no password: got %d, want 403", w.Code)
	}
	w = doJSON(t, r, "GET", "/posts/"+view.Post.ID+"?password=wrong", nil, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong password: got %d, want 403", w.Code)
	}
	w = doJSON(t, r, "GET", "/posts/"+view.Post.ID+"?password=open-sesame", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("correct password: got %d, want 200", w.Code)
	}
}

func TestTaxonomyAPISlugConflict(t *testing.T) {
	db := testDB(t)
	r, _ := newTestRouter(t, db)

	slug := "api-conflict-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTerms(t, db, slug) })

	w := doJSON(t, r, "POST", "/taxonomies", termInput{Type: "category", Name: "First", Slug: slug}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create first: got %d", w.Code)
	}
	w = doJSON(t, r, "POST", "/taxonomies", termInput{Type: "category", Name: "Second", Slug: slug}, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate slug: got %d, want 409", w.Code)
	}
	w = doJSON(t, r, "POST", "/taxonomies", termInput{Type: "series", Name: "Bad", Slug: "bad"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown type: got %d, want 400", w.Code)
	}
}
