// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// TaxonomyType distinguishes hierarchical categories from flat tags.
type TaxonomyType string

const (
	TaxonomyCategory TaxonomyType = "category"
	TaxonomyTag      TaxonomyType = "tag"
)

// TaxonomyStatus controls listing visibility. Deleted terms keep their
// historical relationship edges.
type TaxonomyStatus int

const (
	TaxonomyStatusHidden  TaxonomyStatus = 0
	TaxonomyStatusVisible TaxonomyStatus = 1
	TaxonomyStatusTrash   TaxonomyStatus = 2
)

// Taxonomy is a category or tag term. Slug is unique within a type among
// non-trashed terms. Categories may nest via ParentID; tags never do.
type Taxonomy struct {
	ID          string         `json:"taxonomyId"`
	Type        TaxonomyType   `json:"type"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	ParentID    *string        `json:"parent,omitempty"`
	TermOrder   int            `json:"termOrder"`
	Status      TaxonomyStatus `json:"status"`
	PostCount   int            `json:"count"`
	CreatedAt   time.Time      `json:"created"`
	ModifiedAt  time.Time      `json:"modified"`

	// Virtual fields populated by tree-building reads.
	Children []Taxonomy `json:"children,omitempty"`
	Depth    int        `json:"depth,omitempty"`
}

// TaxonomyRelationship is a post↔term edge, unique per pair.
type TaxonomyRelationship struct {
	PostID string `json:"postId"`
	TermID string `json:"termId"`
}
