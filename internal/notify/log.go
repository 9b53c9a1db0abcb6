// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log instead of
// delivering them. It serves development setups and deployments without a
// delivery queue.
type LogNotifier struct{}

// Send logs the message and always succeeds.
func (LogNotifier) Send(_ context.Context, msg Message) error {
	slog.Info("notification",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
