// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"inkpress/internal/models"
)

// ErrInvalidHierarchy is returned when a tag term is given a parent; tags
// are flat.
var ErrInvalidHierarchy = errors.New("tags cannot have a parent term")

// ErrDislikeUnsupported is returned for negative votes against posts; the
// dislike counter exists on comments only.
var ErrDislikeUnsupported = errors.New("dislike votes apply to comments only")

// NotFoundError reports a missing referenced entity. Entity is a short
// noun such as "post", "comment", or "taxonomy".
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// SlugConflictError reports a slug already used within the same scope.
type SlugConflictError struct {
	Type models.TaxonomyType
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("%s slug %q already exists", e.Type, e.Slug)
}

// GuidConflictError reports a post guid already in use by a live post.
type GuidConflictError struct {
	Guid string
}

func (e *GuidConflictError) Error() string {
	return fmt.Sprintf("post guid %q already exists", e.Guid)
}

// LimitExceededError reports an attach request carrying more terms than
// the per-type maximum.
type LimitExceededError struct {
	Type   models.TaxonomyType
	Max    int
	Actual int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("at most %d %s terms per post, got %d", e.Max, e.Type, e.Actual)
}

// CrossPostReferenceError reports a comment parent or top reference that
// exists but belongs to a different post.
type CrossPostReferenceError struct {
	CommentID string
	PostID    string
}

func (e *CrossPostReferenceError) Error() string {
	return fmt.Sprintf("comment %q does not belong to post %q", e.CommentID, e.PostID)
}

// TargetNotFoundError reports a vote against a post or comment that does
// not exist.
type TargetNotFoundError struct {
	Type models.VoteTarget
	ID   string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("vote target %s %q not found", e.Type, e.ID)
}

// TransactionError wraps a storage failure inside a multi-step mutation.
// The underlying cause is logged with its full input payload at the point
// of failure and deliberately not detailed to API callers.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: query failed", e.Op)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is a typed, client-correctable error as
// opposed to an internal storage failure.
func IsUserError(err error) bool {
	var nf *NotFoundError
	var sc *SlugConflictError
	var gc *GuidConflictError
	var le *LimitExceededError
	var cp *CrossPostReferenceError
	var tn *TargetNotFoundError
	return errors.As(err, &nf) || errors.As(err, &sc) || errors.As(err, &gc) ||
		errors.As(err, &le) || errors.As(err, &cp) || errors.As(err, &tn) ||
		errors.Is(err, ErrInvalidHierarchy) || errors.Is(err, ErrDislikeUnsupported)
}
