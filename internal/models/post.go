// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostType distinguishes posts, standalone pages, and attachments sharing
// the posts table.
type PostType string

const (
	PostTypePost       PostType = "post"
	PostTypePage       PostType = "page"
	PostTypeAttachment PostType = "attachment"
)

// PostStatus represents the visibility of a post.
type PostStatus string

const (
	PostStatusPublish  PostStatus = "publish"
	PostStatusPassword PostStatus = "password"
	PostStatusPrivate  PostStatus = "private"
	PostStatusDraft    PostStatus = "draft"
	PostStatusTrash    PostStatus = "trash"
)

// PostOriginal flags whether a post is original writing or a reprint.
type PostOriginal int

const (
	PostReprint    PostOriginal = 0
	PostIsOriginal PostOriginal = 1
)

// Post is a blog post, page, or attachment. Deletion is a status
// transition, never a row delete, so historical taxonomy edges and
// counters stay consistent.
type Post struct {
	ID           string       `json:"postId"`
	Title        string       `json:"postTitle"`
	RawContent   string       `json:"postRawContent"`
	Content      string       `json:"postContent"`
	Excerpt      string       `json:"postExcerpt"`
	Status       PostStatus   `json:"postStatus"`
	Type         PostType     `json:"postType"`
	ParentID     *string      `json:"postParent,omitempty"`
	PasswordHash string       `json:"-"`
	Guid         string       `json:"postGuid"`
	Original     PostOriginal `json:"postOriginal"`
	Source       string       `json:"postSource,omitempty"`
	Author       string       `json:"postAuthor,omitempty"`
	Likes        int          `json:"postLikes"`
	CommentCount int          `json:"commentCount"`
	ViewCount    int          `json:"postViewCount"`
	CreatedAt    time.Time    `json:"postCreated"`
	ModifiedAt   time.Time    `json:"postModified"`
}

// IsPublic returns true when the post is visible without a password or login.
func (p *Post) IsPublic() bool {
	return p.Status == PostStatusPublish
}

// PostView is a post composed with its metadata and taxonomy terms.
// It is never partially populated: composition fails as a whole when any
// sub-read fails.
type PostView struct {
	Post       *Post             `json:"post"`
	Meta       map[string]string `json:"meta"`
	Tags       []Taxonomy        `json:"tags"`
	Categories []Taxonomy        `json:"categories"`
}

// PostList is one page of composed posts.
type PostList struct {
	Posts []PostView `json:"posts"`
	Page  int        `json:"page"`
	Total int        `json:"total"`
}
