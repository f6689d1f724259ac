package library

import (
	"fmt"
	"log/slog"
	"time"
)

// OutcomeCode discriminates business outcomes of checkout/return requests.
type OutcomeCode string

const (
	OutcomeCheckedOut    OutcomeCode = "CHECKED_OUT"
	OutcomeNotAvailable  OutcomeCode = "NOT_AVAILABLE"
	OutcomeLimitReached  OutcomeCode = "LIMIT_REACHED"
	OutcomeReturned      OutcomeCode = "RETURNED"
	OutcomeNotCheckedOut OutcomeCode = "NOT_CHECKED_OUT"
	OutcomeHoldPlaced    OutcomeCode = "HOLD_PLACED"
	OutcomeHoldRefused   OutcomeCode = "HOLD_REFUSED"
)

// Outcome is the successful completion of a business operation. A denied
// request ("book not available", "limit reached") is still an Outcome, not an
// error: errors are reserved for lookups and infrastructure failures.
type Outcome struct {
	Code    OutcomeCode
	Message string
	DueDate *time.Time // set on successful checkout
	LateFee float64    // set on late return
}

// Denied reports whether the request completed without being fulfilled.
func (o Outcome) Denied() bool {
	switch o.Code {
	case OutcomeNotAvailable, OutcomeLimitReached, OutcomeNotCheckedOut, OutcomeHoldRefused:
		return true
	}
	return false
}

// Library is the orchestrator tying book state, member state, tier policies,
// late fees and notifications together. It is a stateless coordinator: all
// records live in the Store.
type Library struct {
	books    *Books
	members  *Members
	search   *Search
	reports  *Reports
	store    Store
	policies Policies
	fees     FeeRules
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// Option tweaks Library construction.
type Option func(*Library)

// WithClock fixes the source of "today"; for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithPolicies replaces the stock tier policies.
func WithPolicies(p Policies) Option {
	return func(l *Library) { l.policies = p }
}

// WithFeeRules replaces the stock tier fee rules.
func WithFeeRules(f FeeRules) Option {
	return func(l *Library) { l.fees = f }
}

// NewLibrary wires the orchestrator over a store and a notifier.
func NewLibrary(store Store, notifier Notifier, opts ...Option) *Library {
	l := &Library{
		store:    store,
		policies: DefaultPolicies(),
		fees:     DefaultFeeRules(),
		notifier: notifier,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.books = NewBooks(store, l.now)
	l.members = NewMembers(store)
	l.search = NewSearch(store)
	l.reports = NewReports(store, l.now)
	return l
}

// Checkout checks the book out to the member and returns the business
// outcome. Book or member lookup failures propagate as NotFoundError; a
// missing tier policy is an UnknownTierError.
//
// The availability check and the mutation are separate reads and writes with
// no lock between them; callers that issue concurrent requests must serialize
// them per book.
func (l *Library) Checkout(isbn, memberEmail string) (Outcome, error) {
	book, err := l.books.Get(isbn)
	if err != nil {
		return Outcome{}, err
	}
	member, err := l.members.Get(memberEmail)
	if err != nil {
		return Outcome{}, err
	}

	if !l.books.IsAvailable(book) {
		return Outcome{Code: OutcomeNotAvailable, Message: "Book is not available"}, nil
	}

	policy, err := l.policies.For(member.Tier)
	if err != nil {
		return Outcome{}, err
	}
	if !policy.CanCheckout(member) {
		return Outcome{Code: OutcomeLimitReached, Message: "Member has reached checkout limit"}, nil
	}

	if err := l.books.MarkCheckedOut(book, member.Email, policy.LoanPeriodDays); err != nil {
		return Outcome{}, err
	}
	if err := l.members.IncrementCheckoutCount(member); err != nil {
		return Outcome{}, err
	}

	if _, err := l.store.RecordLoan(&Loan{
		ISBN:         book.ISBN,
		MemberEmail:  member.Email,
		CheckedOutAt: l.now(),
		DueDate:      *book.DueDate,
	}); err != nil {
		// Ledger is history only; the checkout itself already happened.
		l.log.Warn("record loan failed", "isbn", book.ISBN, "member", member.Email, "error", err)
	}

	l.notifier.NotifyCheckout(member, book, *book.DueDate)
	l.log.Info("book checked out", "isbn", book.ISBN, "member", member.Email, "due", *book.DueDate)

	due := *book.DueDate
	return Outcome{
		Code:    OutcomeCheckedOut,
		Message: fmt.Sprintf("Book checked out successfully. Due date: %s", due.Format("2006-01-02")),
		DueDate: &due,
	}, nil
}

// Return takes the book back, charging the borrower's tier late fee when the
// due date has passed. An already-available book yields a distinct outcome
// with no mutation.
func (l *Library) Return(isbn string) (Outcome, error) {
	book, err := l.books.Get(isbn)
	if err != nil {
		return Outcome{}, err
	}
	if book.Available() {
		return Outcome{Code: OutcomeNotCheckedOut, Message: "Book is not checked out"}, nil
	}
	if book.BorrowedBy == nil {
		return Outcome{}, fmt.Errorf("book %s is checked out but has no borrower", isbn)
	}

	member, err := l.members.Get(*book.BorrowedBy)
	if err != nil {
		return Outcome{}, err
	}

	var lateFee float64
	if book.DueDate != nil && dateOf(*book.DueDate).Before(dateOf(l.now())) {
		rule, err := l.fees.For(member.Tier)
		if err != nil {
			return Outcome{}, err
		}
		lateFee = rule(daysLate(*book.DueDate, l.now()))
	}

	if err := l.books.MarkReturned(book); err != nil {
		return Outcome{}, err
	}
	if err := l.members.DecrementCheckoutCount(member); err != nil {
		return Outcome{}, err
	}
	if err := l.store.CloseLoan(isbn, member.Email, l.now(), lateFee); err != nil {
		l.log.Warn("close loan failed", "isbn", isbn, "member", member.Email, "error", err)
	}

	l.notifier.NotifyReturn(member, book, lateFee)
	l.log.Info("book returned", "isbn", isbn, "member", member.Email, "late_fee", lateFee)

	l.notifyNextHold(book)

	if lateFee > 0 {
		return Outcome{
			Code:    OutcomeReturned,
			Message: fmt.Sprintf("Book returned. Late fee: $%.2f", lateFee),
			LateFee: lateFee,
		}, nil
	}
	return Outcome{Code: OutcomeReturned, Message: "Book returned successfully"}, nil
}

// ---------------------------------------------------------------------------
// Pass-throughs, keeping the CLI to a single collaborator
// ---------------------------------------------------------------------------

// AddBook puts a book in the catalog.
func (l *Library) AddBook(book *Book) error { return l.books.Add(book) }

// RegisterMember registers a member with a password.
func (l *Library) RegisterMember(name, email string, tier MembershipTier, password string) (*Member, error) {
	return l.members.Register(name, email, tier, password)
}

// Authenticate verifies a member's password.
func (l *Library) Authenticate(email, password string) error {
	return l.members.Authenticate(email, password)
}

// ResetPassword replaces a member's password.
func (l *Library) ResetPassword(email, password string) error {
	return l.members.ResetPassword(email, password)
}

// ListBooks returns the whole catalog in storage order.
func (l *Library) ListBooks() ([]*Book, error) { return l.store.ListBooks() }

// ListMembers returns all registered members in storage order.
func (l *Library) ListMembers() ([]*Member, error) { return l.store.ListMembers() }

// SearchByTitle matches titles by case-insensitive substring.
func (l *Library) SearchByTitle(title string) ([]*Book, error) { return l.search.ByTitle(title) }

// SearchByAuthor matches authors exactly.
func (l *Library) SearchByAuthor(author string) ([]*Book, error) { return l.search.ByAuthor(author) }

// SearchByISBN returns the book or nil.
func (l *Library) SearchByISBN(isbn string) (*Book, error) { return l.search.ByISBN(isbn) }

// SearchBy dispatches a search by kind ("title", "author", "isbn").
func (l *Library) SearchBy(kind, query string) ([]*Book, error) { return l.search.Dispatch(kind, query) }

// GenerateReport dispatches a report by kind ("overdue", "available", "members").
func (l *Library) GenerateReport(kind string) (string, error) { return l.reports.Generate(kind) }
