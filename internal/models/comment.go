// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// CommentStatus is the moderation state of a comment. Trash, reject, and
// spam are distinct terminal states rather than one deleted flag.
type CommentStatus string

const (
	CommentStatusNormal  CommentStatus = "normal"
	CommentStatusPending CommentStatus = "pending"
	CommentStatusTrash   CommentStatus = "trash"
	CommentStatusReject  CommentStatus = "reject"
	CommentStatusSpam    CommentStatus = "spam"
)

// Valid reports whether s is a known comment status.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusNormal, CommentStatusPending, CommentStatusTrash,
		CommentStatusReject, CommentStatusSpam:
		return true
	}
	return false
}

// Comment is a threaded comment on a post. TopID denormalizes the root of
// the reply thread so a whole thread can be fetched flat; it is resolved
// once at creation. ParentID and TopID always reference comments on the
// same post.
type Comment struct {
	ID              string        `json:"commentId"`
	PostID          string        `json:"postId"`
	ParentID        *string       `json:"commentParent,omitempty"`
	TopID           *string       `json:"commentTop,omitempty"`
	AuthorName      string        `json:"authorName"`
	AuthorEmail     string        `json:"authorEmail"`
	AuthorEmailHash string        `json:"authorEmailHash"`
	AuthorIP        string        `json:"authorIp,omitempty"`
	AuthorUA        string        `json:"authorUserAgent,omitempty"`
	UserID          *string       `json:"userId,omitempty"`
	Content         string        `json:"commentContent"`
	Status          CommentStatus `json:"commentStatus"`
	Likes           int           `json:"commentLikes"`
	Dislikes        int           `json:"commentDislikes"`
	CreatedAt       time.Time     `json:"commentCreated"`
}

// CommentList is one page of comments.
type CommentList struct {
	Comments []Comment `json:"comments"`
	Page     int       `json:"page"`
	Total    int       `json:"total"`
}
