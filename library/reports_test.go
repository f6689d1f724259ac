package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReports(t *testing.T) (*Reports, *SQLiteStore) {
	t.Helper()
	store := openTestStore(t)
	return NewReports(store, func() time.Time { return testToday }), store
}

func TestAvailabilityReport(t *testing.T) {
	reports, store := newTestReports(t)
	saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")

	text, err := reports.Generate("available")
	require.NoError(t, err)
	assert.Equal(t, "Available books: 1", text)
}

func TestMembershipReport(t *testing.T) {
	reports, store := newTestReports(t)
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)
	saveTestMember(t, store, "bob@example.com", "Bob", TierPremium)

	text, err := reports.Generate("members")
	require.NoError(t, err)
	assert.Equal(t, "Total members: 2", text)
}

func TestOverdueReportEmpty(t *testing.T) {
	reports, _ := newTestReports(t)

	text, err := reports.Generate("overdue")
	require.NoError(t, err)
	assert.Contains(t, text, "OVERDUE BOOKS REPORT")
	assert.Contains(t, text, "No overdue books.")
}

func TestOverdueReportListsBooks(t *testing.T) {
	reports, store := newTestReports(t)
	saveTestMember(t, store, "alice@example.com", "Alice", TierRegular)
	book := saveTestBook(t, store, "isbn-1", "Clean Code", "Robert C. Martin")

	borrower := "alice@example.com"
	due := testToday.AddDate(0, 0, -5)
	book.Status = StatusCheckedOut
	book.BorrowedBy = &borrower
	book.DueDate = &due
	require.NoError(t, store.SaveBook(book))

	// A book due in the future stays out of the report.
	future := saveTestBook(t, store, "isbn-2", "1984", "George Orwell")
	futureDue := testToday.AddDate(0, 0, 5)
	future.Status = StatusCheckedOut
	future.BorrowedBy = &borrower
	future.DueDate = &futureDue
	require.NoError(t, store.SaveBook(future))

	text, err := reports.Generate("overdue")
	require.NoError(t, err)
	assert.Contains(t, text, "Clean Code by Robert C. Martin - Due: 2026-03-05 - Checked out by: alice@example.com")
	assert.NotContains(t, text, "1984")
	assert.NotContains(t, text, "No overdue books.")
}

func TestInvalidReportType(t *testing.T) {
	reports, _ := newTestReports(t)

	_, err := reports.Generate("weekly")
	var invalid *InvalidReportTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "weekly", invalid.Kind)
}
