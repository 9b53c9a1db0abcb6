// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Posts serves the post lifecycle: crud, composed views, and listing.
type Posts struct {
	db    *sql.DB
	posts *store.PostStore
	tax   *store.TaxonomyStore
}

// NewPosts returns the post handler group.
func NewPosts(db *sql.DB, posts *store.PostStore, tax *store.TaxonomyStore) *Posts {
	return &Posts{db: db, posts: posts, tax: tax}
}

// postInput is the client payload for creating or updating a post.
// Categories and tags are full replacement sets; metadata entries are
// appended. Everything lands in one transaction.
type postInput struct {
	Title          string            `json:"postTitle"`
	Content        string            `json:"postContent"`
	Excerpt        string            `json:"postExcerpt"`
	Status         string            `json:"postStatus"`
	Type           string            `json:"postType"`
	Parent         string            `json:"postParent"`
	Password       string            `json:"postPassword"`
	Guid           string            `json:"postGuid"`
	Original       int               `json:"postOriginal"`
	Source         string            `json:"postSource"`
	Author         string            `json:"postAuthor"`
	Categories     []string          `json:"categories"`
	Tags           []string          `json:"tags"`
	Meta           map[string]string `json:"meta"`
	UpdateModified bool              `json:"updateModified"`
}

func (in postInput) params() store.PostParams {
	return store.PostParams{
		Title:          in.Title,
		RawContent:     in.Content,
		Excerpt:        in.Excerpt,
		Status:         models.PostStatus(in.Status),
		Type:           models.PostType(in.Type),
		ParentID:       optional(in.Parent),
		Password:       in.Password,
		Guid:           in.Guid,
		Original:       models.PostOriginal(in.Original),
		Source:         in.Source,
		Author:         in.Author,
		UpdateModified: in.UpdateModified,
	}
}

// Create inserts a post together with its taxonomy edges and metadata in
// a single transaction. A failed term attachment rolls the post back too.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if msg := validatePostInput(in); msg != "" {
		respondBadRequest(w, msg)
		return
	}

	var created *models.Post
	err := store.Transact(h.db, func(tx *sql.Tx) error {
		posts := h.posts.WithTx(tx)
		var err error
		created, err = posts.Create(in.params())
		if err != nil {
			return err
		}
		if err := h.attachTerms(tx, created.ID, in); err != nil {
			return err
		}
		return h.writeMeta(posts, created.ID, in.Meta)
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	view, err := h.posts.ComposeView(created)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// Update rewrites a post and replaces its taxonomy sets in one
// transaction. The modified timestamp moves only when the payload asks
// for it.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if msg := validatePostInput(in); msg != "" {
		respondBadRequest(w, msg)
		return
	}

	var updated *models.Post
	err := store.Transact(h.db, func(tx *sql.Tx) error {
		posts := h.posts.WithTx(tx)
		var err error
		updated, err = posts.Update(id, in.params())
		if err != nil {
			return err
		}
		if err := h.attachTerms(tx, id, in); err != nil {
			return err
		}
		return h.writeMeta(posts, id, in.Meta)
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	view, err := h.posts.ComposeView(updated)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Posts) attachTerms(tx *sql.Tx, postID string, in postInput) error {
	tax := h.tax.WithTx(tx)
	if err := tax.AttachPostToTerms(postID, in.Categories, models.TaxonomyCategory); err != nil {
		return err
	}
	return tax.AttachPostToTerms(postID, in.Tags, models.TaxonomyTag)
}

func (h *Posts) writeMeta(posts *store.PostStore, postID string, meta map[string]string) error {
	for key, value := range meta {
		if key == "" || len(key) > maxMetaKeyLength {
			continue
		}
		if err := posts.Meta().Set(postID, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the composed view of one post and bumps its view counter.
// Password protected posts require the matching password query parameter.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.FindByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if post == nil || post.Status == models.PostStatusTrash {
		respondStoreError(w, &store.NotFoundError{Entity: "post", ID: id})
		return
	}
	if post.Status == models.PostStatusPassword {
		ok, err := h.posts.CheckPostPassword(id, r.URL.Query().Get("password"))
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if !ok {
			respondJSON(w, http.StatusForbidden, apiError{Error: "post is password protected"})
			return
		}
	}

	view, err := h.posts.ComposeView(post)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	h.posts.IncrementViewCount(id)
	respondJSON(w, http.StatusOK, view)
}

// List returns one page of composed post views.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	param := store.PostQueryParam{
		Type:     models.PostType(q.Get("type")),
		Status:   models.PostStatus(q.Get("status")),
		Keyword:  q.Get("keyword"),
		Page:     queryInt(q.Get("page")),
		PageSize: queryInt(q.Get("pageSize")),
	}
	list, err := h.posts.List(param)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// queryInt parses a positive integer query parameter, zero when absent or
// malformed.
func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
