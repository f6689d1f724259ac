package library

import (
	"fmt"
	"strings"
	"time"
)

// BookStatus is the circulation state of a book. A book is either on the
// shelf or checked out; there are no other states.
type BookStatus string

const (
	StatusAvailable  BookStatus = "AVAILABLE"
	StatusCheckedOut BookStatus = "CHECKED_OUT"
)

// MembershipTier classifies a member for checkout limits, loan periods and
// late fees. New tiers only need entries in the policy and fee tables.
type MembershipTier string

const (
	TierRegular MembershipTier = "REGULAR"
	TierPremium MembershipTier = "PREMIUM"
	TierStudent MembershipTier = "STUDENT"
)

// ParseTier maps a user-supplied tier name to a MembershipTier.
func ParseTier(s string) (MembershipTier, error) {
	switch MembershipTier(strings.ToUpper(strings.TrimSpace(s))) {
	case TierRegular:
		return TierRegular, nil
	case TierPremium:
		return TierPremium, nil
	case TierStudent:
		return TierStudent, nil
	}
	return "", fmt.Errorf("unknown membership tier %q", s)
}

// Book is a catalog entry identified by its ISBN.
// BorrowedBy and DueDate are both set while the book is checked out and both
// nil while it is available; Status is kept consistent with them.
type Book struct {
	ISBN        string     `db:"isbn" json:"isbn"`
	Title       string     `db:"title" json:"title"`
	Author      string     `db:"author" json:"author"`
	PublishedOn time.Time  `db:"published_on" json:"published_on"`
	Status      BookStatus `db:"status" json:"status"`
	BorrowedBy  *string    `db:"borrowed_by" json:"borrowed_by,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
}

// Available reports whether the book can be checked out.
func (b *Book) Available() bool { return b.Status == StatusAvailable }

// Member is a registered library member identified by email.
type Member struct {
	Email           string         `db:"email" json:"email"`
	Name            string         `db:"name" json:"name"`
	Tier            MembershipTier `db:"tier" json:"tier"`
	BooksCheckedOut int            `db:"books_checked_out" json:"books_checked_out"`
	PasswordHash    string         `db:"password_hash" json:"-"` // Don't serialize password hash
}

// Hold is a queued request to be notified when a checked-out book comes back.
// Holds are served FIFO per book; fulfilment only sends a notification, it
// never assigns the book.
type Hold struct {
	ID          int64      `db:"id" json:"id"`
	ISBN        string     `db:"isbn" json:"isbn"`
	MemberEmail string     `db:"member_email" json:"member_email"`
	PlacedAt    time.Time  `db:"placed_at" json:"placed_at"`
	FulfilledAt *time.Time `db:"fulfilled_at" json:"fulfilled_at,omitempty"`
}

// Loan is a ledger row recording one checkout. It is history only: live
// circulation state lives on the Book record.
type Loan struct {
	ID           int64      `db:"id" json:"id"`
	ISBN         string     `db:"isbn" json:"isbn"`
	MemberEmail  string     `db:"member_email" json:"member_email"`
	CheckedOutAt time.Time  `db:"checked_out_at" json:"checked_out_at"`
	DueDate      time.Time  `db:"due_date" json:"due_date"`
	ReturnedAt   *time.Time `db:"returned_at" json:"returned_at,omitempty"`
	LateFee      float64    `db:"late_fee" json:"late_fee"`
}
