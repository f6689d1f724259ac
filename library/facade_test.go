package library

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type notice struct {
	kind  string
	email string
	isbn  string
	due   time.Time
	fee   float64
}

// recordingNotifier captures dispatched notices for assertions.
type recordingNotifier struct {
	notices []notice
}

func (n *recordingNotifier) NotifyCheckout(m *Member, b *Book, due time.Time) {
	n.notices = append(n.notices, notice{kind: "checkout", email: m.Email, isbn: b.ISBN, due: due})
}

func (n *recordingNotifier) NotifyReturn(m *Member, b *Book, fee float64) {
	n.notices = append(n.notices, notice{kind: "return", email: m.Email, isbn: b.ISBN, fee: fee})
}

func (n *recordingNotifier) NotifyHoldAvailable(m *Member, b *Book) {
	n.notices = append(n.notices, notice{kind: "hold", email: m.Email, isbn: b.ISBN})
}

func newTestLibrary(t *testing.T) (*Library, *SQLiteStore, *recordingNotifier) {
	t.Helper()
	store := openTestStore(t)
	notifier := &recordingNotifier{}
	lib := NewLibrary(store, notifier,
		WithClock(func() time.Time { return testToday }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return lib, store, notifier
}

// checkOutDirectly writes a checked-out book state straight to storage.
func checkOutDirectly(t *testing.T, store *SQLiteStore, book *Book, email string, due time.Time) {
	t.Helper()
	book.Status = StatusCheckedOut
	book.BorrowedBy = &email
	book.DueDate = &due
	require.NoError(t, store.SaveBook(book))
}

func TestCheckoutSuccess(t *testing.T) {
	lib, store, notifier := newTestLibrary(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)

	outcome, err := lib.Checkout("isbn-1", "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCheckedOut, outcome.Code)
	assert.False(t, outcome.Denied())
	require.NotNil(t, outcome.DueDate)
	assert.Equal(t, "2026-03-24", outcome.DueDate.Format("2006-01-02"), "regular tier loans run 14 days")
	assert.Contains(t, outcome.Message, "2026-03-24")

	book, err := store.FindBookByISBN("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, book.Status)
	require.NotNil(t, book.BorrowedBy)
	assert.Equal(t, "alice@example.com", *book.BorrowedBy)
	require.NotNil(t, book.DueDate)
	assert.Equal(t, "2026-03-24", book.DueDate.Format("2006-01-02"))

	member, err := store.FindMemberByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, member.BooksCheckedOut)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "checkout", notifier.notices[0].kind)
	assert.Equal(t, "alice@example.com", notifier.notices[0].email)
}

func TestCheckoutLoanPeriodsPerTier(t *testing.T) {
	tests := []struct {
		tier    MembershipTier
		wantDue string
	}{
		{TierRegular, "2026-03-24"},
		{TierStudent, "2026-03-31"},
		{TierPremium, "2026-04-09"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			lib, store, _ := newTestLibrary(t)
			saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
			saveTestMember(t, store, "m@example.com", "M", tt.tier)

			outcome, err := lib.Checkout("isbn-1", "m@example.com")
			require.NoError(t, err)
			require.NotNil(t, outcome.DueDate)
			assert.Equal(t, tt.wantDue, outcome.DueDate.Format("2006-01-02"))
		})
	}
}

func TestCheckoutNotAvailable(t *testing.T) {
	lib, store, notifier := newTestLibrary(t)
	book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)
	saveTestMember(t, store, "bob@example.com", "Bob", TierRegular)
	checkOutDirectly(t, store, book, "bob@example.com", testToday.AddDate(0, 0, 14))

	outcome, err := lib.Checkout("isbn-1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotAvailable, outcome.Code)
	assert.True(t, outcome.Denied())
	assert.Equal(t, "Book is not available", outcome.Message)

	// A denied checkout never mutates member state.
	member, err := store.FindMemberByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, member.BooksCheckedOut)
	assert.Empty(t, notifier.notices)
}

func TestCheckoutLimitReached(t *testing.T) {
	lib, store, notifier := newTestLibrary(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	member := &Member{Email: "alice@example.com", Name: "Alice", Tier: TierRegular, BooksCheckedOut: 3}
	require.NoError(t, store.SaveMember(member))

	outcome, err := lib.Checkout("isbn-1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLimitReached, outcome.Code)
	assert.Equal(t, "Member has reached checkout limit", outcome.Message)

	// No state moved.
	book, err := store.FindBookByISBN("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, book.Status)
	got, err := store.FindMemberByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, got.BooksCheckedOut)
	assert.Empty(t, notifier.notices)
}

func TestCheckoutNotFound(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)

	_, err := lib.Checkout("missing", "alice@example.com")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "book", notFound.Entity)

	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	_, err = lib.Checkout("isbn-1", "nobody@example.com")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "member", notFound.Entity)
}

func TestCheckoutUnknownTierIsError(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	require.NoError(t, store.SaveMember(&Member{Email: "x@example.com", Name: "X", Tier: "GOLD"}))

	_, err := lib.Checkout("isbn-1", "x@example.com")
	var unknownTier *UnknownTierError
	require.ErrorAs(t, err, &unknownTier)
}

func TestReturnNotCheckedOut(t *testing.T) {
	lib, store, notifier := newTestLibrary(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")

	outcome, err := lib.Return("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotCheckedOut, outcome.Code)
	assert.Equal(t, "Book is not checked out", outcome.Message)
	assert.Empty(t, notifier.notices)
}

func TestReturnOnTime(t *testing.T) {
	lib, store, notifier := newTestLibrary(t)
	book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	member := &Member{Email: "alice@example.com", Name: "Alice", Tier: TierRegular, BooksCheckedOut: 1}
	require.NoError(t, store.SaveMember(member))
	checkOutDirectly(t, store, book, "alice@example.com", testToday) // due today, not late

	outcome, err := lib.Return("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReturned, outcome.Code)
	assert.Equal(t, "Book returned successfully", outcome.Message)
	assert.Zero(t, outcome.LateFee)

	got, err := store.FindBookByISBN("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, got.Status)
	assert.Nil(t, got.BorrowedBy)
	assert.Nil(t, got.DueDate)

	alice, err := store.FindMemberByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, alice.BooksCheckedOut)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "return", notifier.notices[0].kind)
	assert.Zero(t, notifier.notices[0].fee)
}

func TestReturnLateFees(t *testing.T) {
	tests := []struct {
		name     string
		tier     MembershipTier
		daysLate int
		wantFee  float64
		wantMsg  string
	}{
		{"regular 5 days late", TierRegular, 5, 2.50, "Book returned. Late fee: $2.50"},
		{"student 5 days late", TierStudent, 5, 1.25, "Book returned. Late fee: $1.25"},
		{"premium 10 days late", TierPremium, 10, 0, "Book returned successfully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, store, notifier := newTestLibrary(t)
			book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
			member := &Member{Email: "m@example.com", Name: "M", Tier: tt.tier, BooksCheckedOut: 1}
			require.NoError(t, store.SaveMember(member))
			checkOutDirectly(t, store, book, "m@example.com", testToday.AddDate(0, 0, -tt.daysLate))

			outcome, err := lib.Return("isbn-1")
			require.NoError(t, err)
			assert.Equal(t, OutcomeReturned, outcome.Code)
			assert.InDelta(t, tt.wantFee, outcome.LateFee, 0.0001)
			assert.Equal(t, tt.wantMsg, outcome.Message)

			require.Len(t, notifier.notices, 1)
			assert.InDelta(t, tt.wantFee, notifier.notices[0].fee, 0.0001)
		})
	}
}

func TestCheckoutReturnRoundTrip(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)

	outcome, err := lib.Checkout("isbn-1", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, OutcomeCheckedOut, outcome.Code)

	outcome, err = lib.Return("isbn-1")
	require.NoError(t, err)
	require.Equal(t, OutcomeReturned, outcome.Code)
	assert.Zero(t, outcome.LateFee)

	book, err := store.FindBookByISBN("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, book.Status)
	assert.Nil(t, book.BorrowedBy)
	assert.Nil(t, book.DueDate)

	member, err := store.FindMemberByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, member.BooksCheckedOut)
}

// Decrementing below zero is intentionally unguarded; a return against a
// member with a zero count drives it to -1.
func TestReturnDecrementsBelowZero(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)
	checkOutDirectly(t, store, book, "alice@example.com", testToday)

	_, err := lib.Return("isbn-1")
	require.NoError(t, err)

	member, err := store.FindMemberByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, -1, member.BooksCheckedOut)
}

func TestPlaceHoldOutcomes(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)
	saveTestMember(t, store, "bob@example.com", "Bob", TierRegular)

	// Available book: nothing to wait for.
	outcome, err := lib.PlaceHold("isbn-1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeHoldRefused, outcome.Code)

	checkOutDirectly(t, store, book, "bob@example.com", testToday.AddDate(0, 0, 14))

	// The borrower cannot queue for their own checkout.
	outcome, err = lib.PlaceHold("isbn-1", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeHoldRefused, outcome.Code)

	outcome, err = lib.PlaceHold("isbn-1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeHoldPlaced, outcome.Code)

	// Duplicate hold.
	outcome, err = lib.PlaceHold("isbn-1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeHoldRefused, outcome.Code)

	holds, err := lib.ListHolds("isbn-1")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "alice@example.com", holds[0].MemberEmail)
}

func TestReturnNotifiesEarliestHold(t *testing.T) {
	lib, store, notifier := newTestLibrary(t)
	book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)
	saveTestMember(t, store, "bob@example.com", "Bob", TierRegular)
	carol := &Member{Email: "carol@example.com", Name: "Carol", Tier: TierRegular, BooksCheckedOut: 1}
	require.NoError(t, store.SaveMember(carol))
	checkOutDirectly(t, store, book, "carol@example.com", testToday.AddDate(0, 0, 14))

	_, err := lib.PlaceHold("isbn-1", "alice@example.com")
	require.NoError(t, err)
	_, err = lib.PlaceHold("isbn-1", "bob@example.com")
	require.NoError(t, err)

	outcome, err := lib.Return("isbn-1")
	require.NoError(t, err)
	require.Equal(t, OutcomeReturned, outcome.Code)

	// The book is back on the shelf for everyone.
	got, err := store.FindBookByISBN("isbn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, got.Status)

	// Exactly one hold notice, to the earliest holder, and that hold is done.
	var holdNotices []notice
	for _, n := range notifier.notices {
		if n.kind == "hold" {
			holdNotices = append(holdNotices, n)
		}
	}
	require.Len(t, holdNotices, 1)
	assert.Equal(t, "alice@example.com", holdNotices[0].email)

	holds, err := lib.ListHolds("isbn-1")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "bob@example.com", holds[0].MemberEmail)
}

func TestCheckoutRecordsLoan(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)

	_, err := lib.Checkout("isbn-1", "alice@example.com")
	require.NoError(t, err)

	var open int
	require.NoError(t, store.db.Get(&open, `SELECT COUNT(*) FROM loans WHERE returned_at IS NULL`))
	assert.Equal(t, 1, open)

	_, err = lib.Return("isbn-1")
	require.NoError(t, err)

	require.NoError(t, store.db.Get(&open, `SELECT COUNT(*) FROM loans WHERE returned_at IS NULL`))
	assert.Equal(t, 0, open)
}
