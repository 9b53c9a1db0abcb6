// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// Taxonomies serves the term vocabulary: categories and tags.
type Taxonomies struct {
	tax *store.TaxonomyStore
}

// NewTaxonomies returns the taxonomy handler group.
func NewTaxonomies(tax *store.TaxonomyStore) *Taxonomies {
	return &Taxonomies{tax: tax}
}

// termInput is the client payload for creating a term.
type termInput struct {
	Type        string `json:"taxonomyType"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Parent      string `json:"parentId"`
	TermOrder   int    `json:"termOrder"`
}

// Create inserts a new term. Tags cannot carry a parent; category slugs
// are unique within the type.
func (h *Taxonomies) Create(w http.ResponseWriter, r *http.Request) {
	var in termInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if msg := validateTermInput(in); msg != "" {
		respondBadRequest(w, msg)
		return
	}

	term, err := h.tax.CreateTerm(store.TermParams{
		Type:        models.TaxonomyType(in.Type),
		Name:        in.Name,
		Slug:        slug.WithFallback(in.Slug, slug.Generate(in.Name)),
		Description: in.Description,
		ParentID:    optional(in.Parent),
		TermOrder:   in.TermOrder,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, term)
}

// List returns all visible terms of one type, or the full category tree
// when tree=1 is set.
func (h *Taxonomies) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("tree") == "1" {
		tree, err := h.tax.Tree()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, tree)
		return
	}

	typ := models.TaxonomyType(q.Get("type"))
	if typ == "" {
		typ = models.TaxonomyCategory
	}
	terms, err := h.tax.ListByType(typ)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, terms)
}

// Get returns one term by id.
func (h *Taxonomies) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	term, err := h.tax.FindTermByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if term == nil {
		respondStoreError(w, &store.NotFoundError{Entity: "taxonomy", ID: id})
		return
	}
	respondJSON(w, http.StatusOK, term)
}

// Delete moves a term to trash. Attached posts keep their edges; the term
// simply stops resolving on composed views.
func (h *Taxonomies) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tax.DeleteTerm(chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Restore brings a trashed term back to visible.
func (h *Taxonomies) Restore(w http.ResponseWriter, r *http.Request) {
	if err := h.tax.RestoreTerm(chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse)
}
