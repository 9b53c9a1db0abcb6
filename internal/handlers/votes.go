// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"inkpress/internal/models"
	"inkpress/internal/notify"
	"inkpress/internal/store"
)

// Votes serves vote casting and the admin vote audit list.
type Votes struct {
	votes    *store.VoteStore
	posts    *store.PostStore
	comments *store.CommentStore
	notifier notify.Notifier

	siteURL    string
	adminEmail string
}

// NewVotes returns the vote handler group.
func NewVotes(votes *store.VoteStore, posts *store.PostStore, comments *store.CommentStore, notifier notify.Notifier, siteURL, adminEmail string) *Votes {
	return &Votes{
		votes:      votes,
		posts:      posts,
		comments:   comments,
		notifier:   notifier,
		siteURL:    siteURL,
		adminEmail: adminEmail,
	}
}

// voteInput is the client payload for casting a vote.
type voteInput struct {
	ObjectType string             `json:"objectType"`
	ObjectID   string             `json:"objectId"`
	Result     int                `json:"voteResult"`
	UserID     string             `json:"userId"`
	Voter      *models.Voter      `json:"voter"`
	Location   *models.IPLocation `json:"location"`
}

// Cast records a vote and, once it is committed, notifies the site admin
// and the comment author. Notification failures are logged, never
// surfaced: the vote already happened.
func (h *Votes) Cast(w http.ResponseWriter, r *http.Request) {
	var in voteInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if msg := validateVoteInput(in); msg != "" {
		respondBadRequest(w, msg)
		return
	}

	vote, err := h.votes.Cast(store.VoteParams{
		ObjectType: models.VoteTarget(in.ObjectType),
		ObjectID:   in.ObjectID,
		Result:     in.Result,
		UserIP:     clientIP(r),
		UserAgent:  r.UserAgent(),
		UserID:     optional(in.UserID),
		Voter:      in.Voter,
		Location:   in.Location,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.dispatchNotice(r.Context(), vote, in.Voter, in.Location)
	respondJSON(w, http.StatusCreated, vote)
}

// dispatchNotice resolves the voted entities and queues the notification
// messages. Runs strictly after the vote committed.
func (h *Votes) dispatchNotice(ctx context.Context, vote *models.Vote, voter *models.Voter, loc *models.IPLocation) {
	var comment *models.Comment
	postID := vote.ObjectID
	if vote.ObjectType == models.VoteTargetComment {
		var err error
		comment, err = h.comments.FindByID(vote.ObjectID)
		if err != nil || comment == nil {
			slog.Error("vote notice: comment lookup failed", "commentId", vote.ObjectID, "error", err)
			return
		}
		postID = comment.PostID
	}
	post, err := h.posts.FindByID(postID)
	if err != nil || post == nil {
		slog.Error("vote notice: post lookup failed", "postId", postID, "error", err)
		return
	}

	for _, msg := range notify.VoteNotice(vote, post, comment, voter, loc, h.siteURL, h.adminEmail) {
		if err := h.notifier.Send(ctx, msg); err != nil {
			slog.Error("vote notice delivery failed", "to", msg.To, "error", err)
		}
	}
}

// List returns one page of votes for the admin audit surface.
func (h *Votes) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.votes.List(store.VoteQueryParam{
		Type:     models.VoteTarget(q.Get("type")),
		IP:       q.Get("ip"),
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
