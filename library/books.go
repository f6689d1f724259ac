package library

import (
	"fmt"
	"time"
)

// Books handles book record operations: catalog loads and the checkout/return
// state transitions. Searching lives in Search, orchestration in Library.
type Books struct {
	store Store
	now   func() time.Time
}

// NewBooks returns book operations over the store. now supplies "today" for
// due-date computation; pass nil for the wall clock.
func NewBooks(store Store, now func() time.Time) *Books {
	if now == nil {
		now = time.Now
	}
	return &Books{store: store, now: now}
}

// Get returns the book or a NotFoundError.
func (b *Books) Get(isbn string) (*Book, error) {
	return b.store.FindBookByISBN(isbn)
}

// Add puts a new book on the shelf. Status defaults to available.
func (b *Books) Add(book *Book) error {
	if book.Status == "" {
		book.Status = StatusAvailable
	}
	if err := b.store.SaveBook(book); err != nil {
		return fmt.Errorf("add book: %w", err)
	}
	return nil
}

// MarkCheckedOut transitions the book to checked out by borrower with a due
// date of today plus loanPeriodDays, and persists it.
func (b *Books) MarkCheckedOut(book *Book, borrower string, loanPeriodDays int) error {
	due := dateOf(b.now()).AddDate(0, 0, loanPeriodDays)
	book.Status = StatusCheckedOut
	book.BorrowedBy = &borrower
	book.DueDate = &due
	return b.store.SaveBook(book)
}

// MarkReturned transitions the book back to available, clearing borrower and
// due date, and persists it.
func (b *Books) MarkReturned(book *Book) error {
	book.Status = StatusAvailable
	book.BorrowedBy = nil
	book.DueDate = nil
	return b.store.SaveBook(book)
}

// IsAvailable reports whether the book is on the shelf.
func (b *Books) IsAvailable(book *Book) bool {
	return book.Available()
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysLate counts the whole days between a due date and today. Returns 0 when
// today is on or before the due date.
func daysLate(due, today time.Time) int {
	d := int(dateOf(today).Sub(dateOf(due)) / (24 * time.Hour))
	if d < 0 {
		return 0
	}
	return d
}
