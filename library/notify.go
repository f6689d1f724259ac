package library

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Notifier emits checkout/return notices. Calls are one-way: the caller never
// observes delivery outcome and a failed notice does not fail the
// transaction that triggered it.
type Notifier interface {
	NotifyCheckout(member *Member, book *Book, dueDate time.Time)
	NotifyReturn(member *Member, book *Book, lateFee float64)
	NotifyHoldAvailable(member *Member, book *Book)
}

// ConsoleNotifier prints email-style notices to a writer, standing in for a
// real mail transport.
type ConsoleNotifier struct {
	out io.Writer
	log *slog.Logger
}

// NewConsoleNotifier writes notices to out and logs dispatches to log.
// A nil log falls back to slog.Default.
func NewConsoleNotifier(out io.Writer, log *slog.Logger) *ConsoleNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &ConsoleNotifier{out: out, log: log}
}

func (n *ConsoleNotifier) NotifyCheckout(member *Member, book *Book, dueDate time.Time) {
	fmt.Fprintf(n.out, "[EMAIL] To: %s | Checked out: %q | Due: %s\n",
		member.Email, book.Title, dueDate.Format("2006-01-02"))
	n.log.Debug("checkout notice sent", "member", member.Email, "isbn", book.ISBN)
}

func (n *ConsoleNotifier) NotifyReturn(member *Member, book *Book, lateFee float64) {
	fmt.Fprintf(n.out, "[EMAIL] To: %s | Returned: %q | Late fee: $%.2f\n",
		member.Email, book.Title, lateFee)
	n.log.Debug("return notice sent", "member", member.Email, "isbn", book.ISBN)
}

func (n *ConsoleNotifier) NotifyHoldAvailable(member *Member, book *Book) {
	fmt.Fprintf(n.out, "[EMAIL] To: %s | Now available: %q\n", member.Email, book.Title)
	n.log.Debug("hold notice sent", "member", member.Email, "isbn", book.ISBN)
}
