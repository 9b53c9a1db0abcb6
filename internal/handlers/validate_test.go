// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"testing"
)

func TestValidatePostInput(t *testing.T) {
	base := postInput{Title: "Hello", Content: "Some content"}

	if msg := validatePostInput(base); msg != "" {
		t.Errorf("valid input rejected: %s", msg)
	}

	tests := []struct {
		name   string
		mutate func(*postInput)
	}{
		{"empty title", func(in *postInput) { in.Title = "  " }},
		{"title too long", func(in *postInput) { in.Title = strings.Repeat("x", maxTitleLength+1) }},
		{"empty content", func(in *postInput) { in.Content = "" }},
		{"unknown type", func(in *postInput) { in.Type = "gallery" }},
		{"unknown status", func(in *postInput) { in.Status = "hidden" }},
		{"password status without password", func(in *postInput) { in.Status = "password" }},
		{"malformed category id", func(in *postInput) { in.Categories = []string{"not-hex!"} }},
		{"malformed tag id", func(in *postInput) { in.Tags = []string{"short"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if msg := validatePostInput(in); msg == "" {
				t.Error("expected a validation message, got none")
			}
		})
	}
}

func TestValidatePostInputPasswordStatus(t *testing.T) {
	in := postInput{Title: "Locked", Content: "body", Status: "password", Password: "s3cret"}
	if msg := validatePostInput(in); msg != "" {
		t.Errorf("password post with password rejected: %s", msg)
	}
}

func TestValidateTermInput(t *testing.T) {
	base := termInput{Type: "category", Name: "Go"}

	if msg := validateTermInput(base); msg != "" {
		t.Errorf("valid input rejected: %s", msg)
	}

	tests := []struct {
		name   string
		mutate func(*termInput)
	}{
		{"empty name", func(in *termInput) { in.Name = "" }},
		{"name too long", func(in *termInput) { in.Name = strings.Repeat("x", maxNameLength+1) }},
		{"unknown type", func(in *termInput) { in.Type = "series" }},
		{"malformed parent id", func(in *termInput) { in.Parent = "zz" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if msg := validateTermInput(in); msg == "" {
				t.Error("expected a validation message, got none")
			}
		})
	}
}

func TestValidateCommentInput(t *testing.T) {
	base := commentInput{
		PostID:     "00000000deadbeef",
		AuthorName: "Reader",
		Content:    "Nice write-up.",
	}

	if msg := validateCommentInput(base); msg != "" {
		t.Errorf("valid input rejected: %s", msg)
	}

	tests := []struct {
		name   string
		mutate func(*commentInput)
	}{
		{"malformed post id", func(in *commentInput) { in.PostID = "nope" }},
		{"empty content", func(in *commentInput) { in.Content = " " }},
		{"empty author name", func(in *commentInput) { in.AuthorName = "" }},
		{"bad email", func(in *commentInput) { in.AuthorEmail = "not-an-email" }},
		{"malformed parent id", func(in *commentInput) { in.ParentID = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if msg := validateCommentInput(in); msg == "" {
				t.Error("expected a validation message, got none")
			}
		})
	}
}

func TestValidateVoteInput(t *testing.T) {
	base := voteInput{ObjectType: "post", ObjectID: "00000000deadbeef", Result: 1}

	if msg := validateVoteInput(base); msg != "" {
		t.Errorf("valid input rejected: %s", msg)
	}
	if msg := validateVoteInput(voteInput{ObjectType: "page", ObjectID: base.ObjectID, Result: 1}); msg == "" {
		t.Error("unknown target accepted")
	}
	if msg := validateVoteInput(voteInput{ObjectType: "post", ObjectID: "bad", Result: 1}); msg == "" {
		t.Error("malformed object id accepted")
	}
	if msg := validateVoteInput(voteInput{ObjectType: "comment", ObjectID: base.ObjectID, Result: 2}); msg == "" {
		t.Error("out of range result accepted")
	}
	if msg := validateVoteInput(voteInput{ObjectType: "comment", ObjectID: base.ObjectID, Result: -1}); msg != "" {
		t.Errorf("comment dislike rejected: %s", msg)
	}
}
