// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify composes outbound notifications and hands them to a
// delivery collaborator. Delivery transport, retries, and backoff are the
// collaborator's business; the engines only compose content and report
// send failures.
package notify

import (
	"context"
	"fmt"
	"strings"

	"inkpress/internal/models"
)

// Message is a composed notification addressed to one recipient.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Notifier delivers composed messages. Implementations must not assume a
// retry contract.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// VoteNotice composes the notification messages for a recorded vote: one
// to the site admin, and for comment votes a second one to the comment's
// author. The comment argument is nil for post votes.
func VoteNotice(vote *models.Vote, post *models.Post, comment *models.Comment, voter *models.Voter, loc *models.IPLocation, siteURL, adminEmail string) []Message {
	var texts []string
	if comment != nil {
		texts = append(texts, "Comment: "+comment.Content)
	}

	from := "Unknown origin"
	if loc != nil {
		if line := loc.String(); line != "" {
			from = line
		}
	}
	if voter != nil && voter.Name != "" {
		from += " · " + voter.Name
	}

	result := "+1"
	if vote.Result < 0 {
		result = "-1"
	}
	texts = append(texts,
		"Vote: "+result,
		"Time: "+vote.CreatedAt.Format("2006-01-02 15:04:05"),
		"From: "+from,
	)

	postLink := fmt.Sprintf(`<a href="%s%s" target="_blank">%s</a>`, siteURL, post.Guid, post.Title)
	var htmlParts []string
	for _, t := range append([]string{"Post: " + postLink}, texts...) {
		htmlParts = append(htmlParts, "<p>"+t+"</p>")
	}
	detailLink := fmt.Sprintf(`<a href="%s%s" target="_blank">View post</a>`, siteURL, post.Guid)
	html := strings.Join(htmlParts, "") + "<br/>" + detailLink

	text := strings.Join(append([]string{"Post: " + post.Title}, texts...), "\n")

	subject := fmt.Sprintf("Your post %q received a vote", post.Title)
	if comment != nil {
		subject = fmt.Sprintf("A comment on %q received a vote", post.Title)
	}

	msgs := []Message{{To: adminEmail, Subject: subject, Text: text, HTML: html}}
	if comment != nil && comment.AuthorEmail != "" {
		msgs = append(msgs, Message{
			To:      comment.AuthorEmail,
			Subject: fmt.Sprintf("Your comment on %q received a vote", post.Title),
			Text:    text,
			HTML:    html,
		})
	}
	return msgs
}
