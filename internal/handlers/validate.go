// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"inkpress/internal/ident"
	"inkpress/internal/models"
)

const (
	maxTitleLength   = 120
	maxSlugLength    = 200
	maxExcerptLength = 400
	maxNameLength    = 50
	maxContentLength = 100000
	maxCommentLength = 2000
	maxMetaKeyLength = 100
)

// validatePostInput checks the client-supplied post fields. Returns an
// empty string when the payload is acceptable.
func validatePostInput(in postInput) string {
	if strings.TrimSpace(in.Title) == "" {
		return "post title is required"
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLength {
		return "post title is too long"
	}
	if strings.TrimSpace(in.Content) == "" {
		return "post content is required"
	}
	if utf8.RuneCountInString(in.Content) > maxContentLength {
		return "post content is too long"
	}
	if utf8.RuneCountInString(in.Excerpt) > maxExcerptLength {
		return "post excerpt is too long"
	}
	if in.Type != "" && !validPostType(models.PostType(in.Type)) {
		return "unknown post type"
	}
	if in.Status != "" && !validPostStatus(models.PostStatus(in.Status)) {
		return "unknown post status"
	}
	if models.PostStatus(in.Status) == models.PostStatusPassword && in.Password == "" {
		return "password protected posts need a password"
	}
	for _, id := range in.Categories {
		if !ident.Valid(id) {
			return "invalid category id"
		}
	}
	for _, id := range in.Tags {
		if !ident.Valid(id) {
			return "invalid tag id"
		}
	}
	return ""
}

// validateTermInput checks the client-supplied taxonomy term fields.
func validateTermInput(in termInput) string {
	if strings.TrimSpace(in.Name) == "" {
		return "term name is required"
	}
	if utf8.RuneCountInString(in.Name) > maxNameLength {
		return "term name is too long"
	}
	if utf8.RuneCountInString(in.Slug) > maxSlugLength {
		return "term slug is too long"
	}
	switch models.TaxonomyType(in.Type) {
	case models.TaxonomyCategory, models.TaxonomyTag:
	default:
		return "unknown taxonomy type"
	}
	if in.Parent != "" && !ident.Valid(in.Parent) {
		return "invalid parent id"
	}
	return ""
}

// validateCommentInput checks the client-supplied comment fields.
func validateCommentInput(in commentInput) string {
	if !ident.Valid(in.PostID) {
		return "invalid post id"
	}
	if strings.TrimSpace(in.Content) == "" {
		return "comment content is required"
	}
	if utf8.RuneCountInString(in.Content) > maxCommentLength {
		return "comment content is too long"
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		return "comment author name is required"
	}
	if utf8.RuneCountInString(in.AuthorName) > maxNameLength {
		return "comment author name is too long"
	}
	if in.AuthorEmail != "" {
		if _, err := mail.ParseAddress(in.AuthorEmail); err != nil {
			return "invalid author email"
		}
	}
	if in.ParentID != "" && !ident.Valid(in.ParentID) {
		return "invalid parent comment id"
	}
	return ""
}

// validateVoteInput checks the client-supplied vote fields.
func validateVoteInput(in voteInput) string {
	switch models.VoteTarget(in.ObjectType) {
	case models.VoteTargetPost, models.VoteTargetComment:
	default:
		return "unknown vote target"
	}
	if !ident.Valid(in.ObjectID) {
		return "invalid object id"
	}
	if in.Result != int(models.VoteLike) && in.Result != int(models.VoteDislike) {
		return "vote result must be 1 or -1"
	}
	return ""
}

func validPostType(t models.PostType) bool {
	switch t {
	case models.PostTypePost, models.PostTypePage, models.PostTypeAttachment:
		return true
	}
	return false
}

func validPostStatus(s models.PostStatus) bool {
	switch s {
	case models.PostStatusPublish, models.PostStatusPassword,
		models.PostStatusPrivate, models.PostStatusDraft, models.PostStatusTrash:
		return true
	}
	return false
}
