package library

import "time"

// Store is the storage collaborator the core works against. Implementations
// own the Book, Member, Hold and Loan records; the core holds no state of its
// own between calls.
//
// Lookups return a NotFoundError when the record is absent. List methods
// return records in storage order and may return an empty slice.
type Store interface {
	// Books.
	FindBookByISBN(isbn string) (*Book, error)
	SaveBook(b *Book) error
	ListBooks() ([]*Book, error)
	FindBooksDueBefore(date time.Time) ([]*Book, error)
	CountBooksByStatus(status BookStatus) (int, error)
	FindBooksByTitleContains(text string) ([]*Book, error)
	FindBooksByAuthor(author string) ([]*Book, error)

	// Members.
	FindMemberByEmail(email string) (*Member, error)
	SaveMember(m *Member) error
	ListMembers() ([]*Member, error)
	CountMembers() (int, error)

	// Holds, FIFO per book.
	CreateHold(isbn, email string, placedAt time.Time) (*Hold, error)
	CancelHold(isbn, email string) error
	ActiveHolds(isbn string) ([]*Hold, error)
	NextHold(isbn string) (*Hold, error)
	FulfillHold(id int64, at time.Time) error

	// Loan ledger.
	RecordLoan(l *Loan) (int64, error)
	CloseLoan(isbn, email string, returnedAt time.Time, lateFee float64) error

	Close() error
}
