package library

import (
	"fmt"
	"strings"
	"time"
)

// ReportGenerator produces one human-readable report from current storage.
// Generators are stateless; every call reads live records.
type ReportGenerator interface {
	Generate() (string, error)
}

// OverdueReport lists every book whose due date is strictly before today.
type OverdueReport struct {
	store Store
	now   func() time.Time
}

func (r *OverdueReport) Generate() (string, error) {
	overdue, err := r.store.FindBooksDueBefore(dateOf(r.now()))
	if err != nil {
		return "", err
	}

	var report strings.Builder
	report.WriteString("OVERDUE BOOKS REPORT\n")
	report.WriteString("====================\n")

	if len(overdue) == 0 {
		report.WriteString("No overdue books.\n")
		return report.String(), nil
	}

	for _, book := range overdue {
		borrower := ""
		if book.BorrowedBy != nil {
			borrower = *book.BorrowedBy
		}
		fmt.Fprintf(&report, "%s by %s - Due: %s - Checked out by: %s\n",
			book.Title, book.Author, book.DueDate.Format("2006-01-02"), borrower)
	}
	return report.String(), nil
}

// AvailabilityReport counts the books currently on the shelf.
type AvailabilityReport struct {
	store Store
}

func (r *AvailabilityReport) Generate() (string, error) {
	n, err := r.store.CountBooksByStatus(StatusAvailable)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Available books: %d", n), nil
}

// MembershipReport counts registered members.
type MembershipReport struct {
	store Store
}

func (r *MembershipReport) Generate() (string, error) {
	n, err := r.store.CountMembers()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Total members: %d", n), nil
}

// Reports dispatches report generation by key.
type Reports struct {
	generators map[string]ReportGenerator
}

// NewReports builds the report dispatcher with the three stock generators
// keyed "overdue", "available" and "members".
func NewReports(store Store, now func() time.Time) *Reports {
	if now == nil {
		now = time.Now
	}
	return &Reports{generators: map[string]ReportGenerator{
		"overdue":   &OverdueReport{store: store, now: now},
		"available": &AvailabilityReport{store: store},
		"members":   &MembershipReport{store: store},
	}}
}

// Generate runs the generator registered under kind, failing with
// InvalidReportTypeError for unrecognized kinds.
func (r *Reports) Generate(kind string) (string, error) {
	gen, ok := r.generators[kind]
	if !ok {
		return "", &InvalidReportTypeError{Kind: kind}
	}
	return gen.Generate()
}
