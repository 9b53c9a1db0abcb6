// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ident generates the short sortable identifiers used as primary
// keys for posts, comments, terms, votes, and meta rows.
package ident

import (
	"crypto/rand"
	"strconv"
	"time"
)

// Length is the fixed identifier length in hex characters.
const Length = 16

// epochMillis is the fixed epoch offset (2011-12-25 17:55:01 UTC) subtracted
// from the current time so the hex prefix stays at 10-11 characters.
const epochMillis = 1324806901760

const hexDigits = "0123456789abcdef"

// New returns a 16-character identifier: a hex millisecond timestamp offset
// followed by random hex padding. Identifiers created later sort
// lexicographically after earlier ones. Collisions are rare but possible;
// callers treat an insert conflict as a retryable failure, not an
// impossibility.
func New() string {
	prefix := strconv.FormatInt(time.Now().UnixMilli()-epochMillis, 16)

	buf := make([]byte, Length-len(prefix))
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = hexDigits[b&0x0f]
	}
	return prefix + string(buf)
}

// Valid reports whether s is a well-formed identifier: exactly Length
// lowercase hex characters.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
