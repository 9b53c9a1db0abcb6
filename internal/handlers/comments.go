// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Comments serves threaded comments and their moderation.
type Comments struct {
	comments *store.CommentStore
}

// NewComments returns the comment handler group.
func NewComments(comments *store.CommentStore) *Comments {
	return &Comments{comments: comments}
}

// commentInput is the client payload for posting a comment.
type commentInput struct {
	PostID      string `json:"postId"`
	ParentID    string `json:"commentParent"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	UserID      string `json:"userId"`
	Content     string `json:"commentContent"`
}

// Create posts a comment. New comments land as pending; the thread root
// and the post's comment counter are resolved inside the store
// transaction.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if msg := validateCommentInput(in); msg != "" {
		respondBadRequest(w, msg)
		return
	}

	comment, err := h.comments.Create(store.CommentParams{
		PostID:      in.PostID,
		ParentID:    optional(in.ParentID),
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		AuthorIP:    clientIP(r),
		AuthorUA:    r.UserAgent(),
		UserID:      optional(in.UserID),
		Content:     in.Content,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// statusInput is the moderation payload.
type statusInput struct {
	Status string `json:"commentStatus"`
}

// ChangeStatus moves a comment between moderation states. Replies keep
// their own state; hiding an ancestor does not cascade.
func (h *Comments) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in statusInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	status := models.CommentStatus(in.Status)
	if !status.Valid() {
		respondBadRequest(w, "unknown comment status")
		return
	}

	if err := h.comments.ChangeStatus(id, status); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse)
}

// List returns one page of comments, optionally scoped to a post or a
// moderation state.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.comments.List(store.CommentQueryParam{
		PostID:   q.Get("postId"),
		Status:   models.CommentStatus(q.Get("status")),
		Keyword:  q.Get("keyword"),
		Page:     queryInt(q.Get("page")),
		PageSize: queryInt(q.Get("pageSize")),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}
