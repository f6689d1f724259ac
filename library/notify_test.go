package library

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsoleNotifierFormats(t *testing.T) {
	var out bytes.Buffer
	notifier := NewConsoleNotifier(&out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	member := &Member{Email: "alice@example.com", Name: "Alice", Tier: TierRegular}
	book := &Book{ISBN: "isbn-1", Title: "Clean Code", Author: "Robert C. Martin"}
	due := time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC)

	notifier.NotifyCheckout(member, book, due)
	notifier.NotifyReturn(member, book, 2.5)
	notifier.NotifyHoldAvailable(member, book)

	assert.Contains(t, out.String(), `[EMAIL] To: alice@example.com | Checked out: "Clean Code" | Due: 2026-03-24`)
	assert.Contains(t, out.String(), `[EMAIL] To: alice@example.com | Returned: "Clean Code" | Late fee: $2.50`)
	assert.Contains(t, out.String(), `[EMAIL] To: alice@example.com | Now available: "Clean Code"`)
}
