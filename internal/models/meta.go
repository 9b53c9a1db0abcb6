// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Meta is a key/value extension row attached to a post, comment, or vote.
// Keys are not unique per owner: the same key may carry several values and
// reads resolve the most recently inserted one.
type Meta struct {
	ID      string `json:"metaId"`
	OwnerID string `json:"ownerId"`
	Key     string `json:"metaKey"`
	Value   string `json:"metaValue"`
}

// Well-known meta keys written by the vote engine.
const (
	MetaKeyUserInfo     = "user_info"
	MetaKeyUserLocation = "user_location"
)
