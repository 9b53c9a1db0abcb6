// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"inkpress/internal/ident"
	"inkpress/internal/models"
)

// TaxonomyStore manages category and tag terms, their hierarchy, and the
// post↔term relationship edges with their denormalized post counts.
type TaxonomyStore struct {
	db *sql.DB // nil inside a WithTx view
	q  DBTX

	categoryLimit int
	tagLimit      int
}

// NewTaxonomyStore returns a TaxonomyStore enforcing the given per-post
// term limits.
func NewTaxonomyStore(db *sql.DB, categoryLimit, tagLimit int) *TaxonomyStore {
	return &TaxonomyStore{db: db, q: db, categoryLimit: categoryLimit, tagLimit: tagLimit}
}

// WithTx returns a view of the store that runs inside the given transaction.
func (s *TaxonomyStore) WithTx(tx *sql.Tx) *TaxonomyStore {
	return &TaxonomyStore{q: tx, categoryLimit: s.categoryLimit, tagLimit: s.tagLimit}
}

const taxonomyColumns = `taxonomy_id, taxonomy_type, name, slug, description, parent_id, term_order, status, post_count, created_at, modified_at`

func scanTaxonomy(scanner interface{ Scan(...any) error }) (*models.Taxonomy, error) {
	var t models.Taxonomy
	err := scanner.Scan(
		&t.ID, &t.Type, &t.Name, &t.Slug, &t.Description,
		&t.ParentID, &t.TermOrder, &t.Status, &t.PostCount,
		&t.CreatedAt, &t.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TermParams carries the validated inputs for creating a term.
type TermParams struct {
	Type        models.TaxonomyType
	Name        string
	Slug        string
	Description string
	ParentID    *string
	TermOrder   int
}

// CreateTerm inserts a new term. It fails with ErrInvalidHierarchy when a
// tag carries a parent, NotFoundError when the parent is absent, and
// SlugConflictError when the slug is taken within the type. The partial
// unique index on (type, slug) backstops the conflict check under
// concurrent creates. A missing slug falls back to the term id, so names
// that normalize to nothing still get a unique slug.
func (s *TaxonomyStore) CreateTerm(p TermParams) (*models.Taxonomy, error) {
	if p.Type == models.TaxonomyTag && p.ParentID != nil {
		return nil, ErrInvalidHierarchy
	}
	if p.ParentID != nil {
		parent, err := s.FindTermByID(*p.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.Type != p.Type {
			return nil, &NotFoundError{Entity: "taxonomy", ID: *p.ParentID}
		}
	}

	id := ident.New()
	if p.Slug == "" {
		p.Slug = id
	}

	now := time.Now()
	row := s.q.QueryRow(`
		INSERT INTO taxonomies (taxonomy_id, taxonomy_type, name, slug, description, parent_id, term_order, status, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+taxonomyColumns,
		id, p.Type, p.Name, p.Slug, p.Description,
		p.ParentID, p.TermOrder, models.TaxonomyStatusVisible, now,
	)
	term, err := scanTaxonomy(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &SlugConflictError{Type: p.Type, Slug: p.Slug}
		}
		return nil, fmt.Errorf("create term: %w", err)
	}
	return term, nil
}

// AttachPostToTerms replaces the post's full set of term associations of
// the given type in one transaction. The diff against the current edges is
// computed here, so the call is idempotent: edges not in the new set are
// removed, missing ones added, and each touched term's post count moves by
// the net delta.
func (s *TaxonomyStore) AttachPostToTerms(postID string, termIDs []string, typ models.TaxonomyType) error {
	// The limit applies to the effective set, so duplicates and empty
	// entries are dropped before counting.
	seen := make(map[string]bool, len(termIDs))
	unique := make([]string, 0, len(termIDs))
	for _, id := range termIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	limit := s.categoryLimit
	if typ == models.TaxonomyTag {
		limit = s.tagLimit
	}
	if len(unique) > limit {
		return &LimitExceededError{Type: typ, Max: limit, Actual: len(unique)}
	}

	if s.db != nil {
		return Transact(s.db, func(tx *sql.Tx) error {
			return s.WithTx(tx).AttachPostToTerms(postID, unique, typ)
		})
	}

	var exists bool
	if err := s.q.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE post_id = $1)`, postID).Scan(&exists); err != nil {
		return fmt.Errorf("attach terms: %w", err)
	}
	if !exists {
		return &NotFoundError{Entity: "post", ID: postID}
	}

	desired := make(map[string]bool, len(unique))
	for _, id := range unique {
		desired[id] = true

		var termType models.TaxonomyType
		err := s.q.QueryRow(`SELECT taxonomy_type FROM taxonomies WHERE taxonomy_id = $1`, id).Scan(&termType)
		if err == sql.ErrNoRows {
			return &NotFoundError{Entity: "taxonomy", ID: id}
		}
		if err != nil {
			return fmt.Errorf("attach terms: %w", err)
		}
		if termType != typ {
			return &NotFoundError{Entity: string(typ), ID: id}
		}
	}

	// Current edges of this type only; the other type's set is untouched.
	rows, err := s.q.Query(`
		SELECT r.term_id FROM taxonomy_relationships r
		JOIN taxonomies t ON t.taxonomy_id = r.term_id
		WHERE r.post_id = $1 AND t.taxonomy_type = $2
	`, postID, typ)
	if err != nil {
		return fmt.Errorf("attach terms: %w", err)
	}
	current := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("attach terms: %w", err)
		}
		current[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("attach terms: %w", err)
	}

	for id := range current {
		if desired[id] {
			continue
		}
		if _, err := s.q.Exec(`DELETE FROM taxonomy_relationships WHERE post_id = $1 AND term_id = $2`, postID, id); err != nil {
			return fmt.Errorf("detach term %s: %w", id, err)
		}
		if err := s.adjustPostCount(id, -1); err != nil {
			return err
		}
	}
	for id := range desired {
		if current[id] {
			continue
		}
		if _, err := s.q.Exec(`INSERT INTO taxonomy_relationships (post_id, term_id) VALUES ($1, $2)`, postID, id); err != nil {
			return fmt.Errorf("attach term %s: %w", id, err)
		}
		if err := s.adjustPostCount(id, 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaxonomyStore) adjustPostCount(termID string, delta int) error {
	_, err := s.q.Exec(`UPDATE taxonomies SET post_count = post_count + $1, modified_at = NOW() WHERE taxonomy_id = $2`, delta, termID)
	if err != nil {
		return fmt.Errorf("adjust post count for %s: %w", termID, err)
	}
	return nil
}

// TermsForPost returns the post's visible category and tag terms.
func (s *TaxonomyStore) TermsForPost(postID string) (categories, tags []models.Taxonomy, err error) {
	rows, err := s.q.Query(`
		SELECT `+prefixColumns("t", taxonomyColumns)+`
		FROM taxonomies t
		JOIN taxonomy_relationships r ON r.term_id = t.taxonomy_id
		WHERE r.post_id = $1 AND t.status = $2
		ORDER BY t.term_order, t.name
	`, postID, models.TaxonomyStatusVisible)
	if err != nil {
		return nil, nil, fmt.Errorf("terms for post: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTaxonomy(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scan term: %w", err)
		}
		if t.Type == models.TaxonomyCategory {
			categories = append(categories, *t)
		} else {
			tags = append(tags, *t)
		}
	}
	return categories, tags, rows.Err()
}

// FindTermByID retrieves a term by id. Returns nil if not found.
func (s *TaxonomyStore) FindTermByID(id string) (*models.Taxonomy, error) {
	row := s.q.QueryRow(`SELECT `+taxonomyColumns+` FROM taxonomies WHERE taxonomy_id = $1`, id)
	t, err := scanTaxonomy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find term by id: %w", err)
	}
	return t, nil
}

// ListByType returns all non-trashed terms of the given type ordered for
// display.
func (s *TaxonomyStore) ListByType(typ models.TaxonomyType) ([]models.Taxonomy, error) {
	rows, err := s.q.Query(`
		SELECT `+taxonomyColumns+` FROM taxonomies
		WHERE taxonomy_type = $1 AND status <> $2
		ORDER BY term_order, name
	`, typ, models.TaxonomyStatusTrash)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var items []models.Taxonomy
	for rows.Next() {
		t, err := scanTaxonomy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *TaxonomyStore) Tree() ([]models.Taxonomy, error) {
	flat, err := s.ListByType(models.TaxonomyCategory)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Taxonomy, parentID *string, depth int) []models.Taxonomy {
	var result []models.Taxonomy
	for _, t := range flat {
		if ptrEqual(t.ParentID, parentID) {
			t.Depth = depth
			t.Children = buildTree(flat, &t.ID, depth+1)
			result = append(result, t)
		}
	}
	return result
}

// ptrEqual compares two *string for equality (both nil or same value).
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// DeleteTerm hides a term from listings. Relationship edges are kept:
// historical posts retain the association and counts stay meaningful.
func (s *TaxonomyStore) DeleteTerm(id string) error {
	return s.setTermStatus(id, models.TaxonomyStatusTrash)
}

// RestoreTerm makes a trashed term visible again.
func (s *TaxonomyStore) RestoreTerm(id string) error {
	return s.setTermStatus(id, models.TaxonomyStatusVisible)
}

func (s *TaxonomyStore) setTermStatus(id string, status models.TaxonomyStatus) error {
	res, err := s.q.Exec(`UPDATE taxonomies SET status = $1, modified_at = NOW() WHERE taxonomy_id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set term status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "taxonomy", ID: id}
	}
	return nil
}

// CheckTaxonomyExist reports whether a non-trashed term with the id
// exists. An empty id is vacuously true so optional references validate
// when omitted.
func (s *TaxonomyStore) CheckTaxonomyExist(id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	var exists bool
	err := s.q.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM taxonomies WHERE taxonomy_id = $1 AND status <> $2)`,
		id, models.TaxonomyStatusTrash,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check taxonomy exist: %w", err)
	}
	return exists, nil
}

// CheckSlugExist reports whether the slug is already used within the type
// by a non-trashed term other than excludeID.
func (s *TaxonomyStore) CheckSlugExist(typ models.TaxonomyType, slug, excludeID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM taxonomies
			WHERE taxonomy_type = $1 AND slug = $2 AND status <> $3 AND taxonomy_id <> $4
		)`, typ, slug, models.TaxonomyStatusTrash, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug exist: %w", err)
	}
	return exists, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
