// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"inkpress/internal/ident"
)

// MetaStore reads and writes the key/value side table of one owning
// entity. Keys are not unique per owner: Set always inserts, and Get
// resolves the most recently inserted value per key.
type MetaStore struct {
	q     DBTX
	table string
}

func newMetaStore(q DBTX, table string) *MetaStore {
	return &MetaStore{q: q, table: table}
}

// NewPostMetaStore returns the meta store backing posts.
func NewPostMetaStore(db *sql.DB) *MetaStore { return newMetaStore(db, "postmeta") }

// NewCommentMetaStore returns the meta store backing comments.
func NewCommentMetaStore(db *sql.DB) *MetaStore { return newMetaStore(db, "commentmeta") }

// NewVoteMetaStore returns the meta store backing votes.
func NewVoteMetaStore(db *sql.DB) *MetaStore { return newMetaStore(db, "votemeta") }

// WithTx returns a view of the store that runs inside the given transaction.
func (s *MetaStore) WithTx(tx *sql.Tx) *MetaStore {
	return &MetaStore{q: tx, table: s.table}
}

// Set inserts a meta row for the owner. Existing rows with the same key
// are left in place; callers wanting latest-wins overwrite must Delete
// first.
func (s *MetaStore) Set(ownerID, key, value string) error {
	_, err := s.q.Exec(
		`INSERT INTO `+s.table+` (meta_id, owner_id, meta_key, meta_value) VALUES ($1, $2, $3, $4)`,
		ident.New(), ownerID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s %q: %w", s.table, key, err)
	}
	return nil
}

// Get returns the owner's meta as a key→value map. With no keys given it
// returns every key. When an owner carries duplicate rows for a key, the
// row with the highest meta_id (the newest) wins.
func (s *MetaStore) Get(ownerID string, keys ...string) (map[string]string, error) {
	query := `SELECT meta_key, meta_value FROM ` + s.table + ` WHERE owner_id = $1`
	args := []any{ownerID}
	if len(keys) > 0 {
		query += ` AND meta_key = ANY($2)`
		args = append(args, keys)
	}
	// Ascending id order so later inserts overwrite earlier ones in the map.
	query += ` ORDER BY meta_id`

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.table, err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// Delete removes the owner's meta rows. With no keys given it removes all
// of them, including every duplicate of each given key otherwise.
func (s *MetaStore) Delete(ownerID string, keys ...string) error {
	query := `DELETE FROM ` + s.table + ` WHERE owner_id = $1`
	args := []any{ownerID}
	if len(keys) > 0 {
		query += ` AND meta_key = ANY($2)`
		args = append(args, keys)
	}
	if _, err := s.q.Exec(query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}
	return nil
}
