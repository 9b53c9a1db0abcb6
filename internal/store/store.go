// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the content engines: posts, taxonomies, comments,
// votes, and their metadata side-tables. Multi-step mutations run inside a
// single transaction; stores expose WithTx views so an orchestrating caller
// can span several engines with one unit of work.
package store

import (
	"database/sql"
	"fmt"
)

// DBTX is the querier interface satisfied by both *sql.DB and *sql.Tx.
// Store methods run against it so the same code serves standalone calls
// and calls joined to an outer transaction.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Transact runs fn inside a transaction, committing on nil error and
// rolling back otherwise.
func Transact(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// clampPage bounds page to [1, ceil(total/pageSize)] the way the admin
// listings expect: asking past the end lands on the last page.
func clampPage(page, pageSize, total int) int {
	if pageSize <= 0 {
		return 1
	}
	last := (total + pageSize - 1) / pageSize
	if last < 1 {
		last = 1
	}
	if page > last {
		return last
	}
	if page < 1 {
		return 1
	}
	return page
}
