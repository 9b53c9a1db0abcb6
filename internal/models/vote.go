// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// VoteTarget is the kind of entity a vote applies to.
type VoteTarget string

const (
	VoteTargetPost    VoteTarget = "post"
	VoteTargetComment VoteTarget = "comment"
)

// Vote results. Dislikes apply to comments only; a negative vote against a
// post is rejected outright, since the post-facing UI exposes no dislike
// control.
const (
	VoteLike    = 1
	VoteDislike = -1
)

// Vote is a single like/dislike event recorded against a post or comment.
// Repeated votes from the same origin are allowed; deduplication, if
// wanted, belongs to the caller.
type Vote struct {
	ID         string     `json:"voteId"`
	ObjectType VoteTarget `json:"objectType"`
	ObjectID   string     `json:"objectId"`
	Result     int        `json:"voteResult"`
	UserIP     string     `json:"userIp"`
	UserAgent  string     `json:"userAgent"`
	UserID     *string    `json:"userId,omitempty"`
	CreatedAt  time.Time  `json:"voteCreated"`
}

// VoteList is one page of votes for the admin surface.
type VoteList struct {
	Votes []Vote `json:"votes"`
	Page  int    `json:"page"`
	Total int    `json:"total"`
}

// Voter is the identity an anonymous voter supplies alongside a vote.
// It is persisted as vote metadata, not as a column.
type Voter struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// IPLocation is a resolved geolocation for a voter's IP, supplied by the
// caller and persisted as vote metadata.
type IPLocation struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// String renders the location as a display line for notifications.
func (l IPLocation) String() string {
	out := ""
	for _, part := range []string{l.Country, l.Region, l.City} {
		if part == "" {
			continue
		}
		if out != "" {
			out += " · "
		}
		out += part
	}
	return out
}
