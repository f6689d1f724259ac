package library

// Holds queue members for a notification when a checked-out book comes back.
// Returning the book still makes it available to everyone; the earliest
// holder just hears about it first.

// PlaceHold queues the member for the book. Lookup failures propagate as
// NotFoundError; an available book, the member's own checkout, or a duplicate
// hold are refused as outcomes.
func (l *Library) PlaceHold(isbn, memberEmail string) (Outcome, error) {
	book, err := l.books.Get(isbn)
	if err != nil {
		return Outcome{}, err
	}
	member, err := l.members.Get(memberEmail)
	if err != nil {
		return Outcome{}, err
	}

	if book.Available() {
		return Outcome{Code: OutcomeHoldRefused, Message: "Book is available - no hold needed"}, nil
	}
	if book.BorrowedBy != nil && *book.BorrowedBy == member.Email {
		return Outcome{Code: OutcomeHoldRefused, Message: "Member already has this book checked out"}, nil
	}
	holds, err := l.store.ActiveHolds(isbn)
	if err != nil {
		return Outcome{}, err
	}
	for _, h := range holds {
		if h.MemberEmail == member.Email {
			return Outcome{Code: OutcomeHoldRefused, Message: "Member already has a hold on this book"}, nil
		}
	}

	if _, err := l.store.CreateHold(isbn, member.Email, l.now()); err != nil {
		return Outcome{}, err
	}
	l.log.Info("hold placed", "isbn", isbn, "member", member.Email)
	return Outcome{Code: OutcomeHoldPlaced, Message: "Hold placed"}, nil
}

// CancelHold removes the member's active hold on the book.
func (l *Library) CancelHold(isbn, memberEmail string) error {
	return l.store.CancelHold(isbn, memberEmail)
}

// ListHolds returns the book's active holds in queue order.
func (l *Library) ListHolds(isbn string) ([]*Hold, error) {
	return l.store.ActiveHolds(isbn)
}

// notifyNextHold tells the earliest holder the book is back on the shelf and
// marks that hold fulfilled. Failures are logged, never propagated: the
// return has already completed.
func (l *Library) notifyNextHold(book *Book) {
	hold, err := l.store.NextHold(book.ISBN)
	if err != nil {
		l.log.Warn("next hold lookup failed", "isbn", book.ISBN, "error", err)
		return
	}
	if hold == nil {
		return
	}
	holder, err := l.members.Get(hold.MemberEmail)
	if err != nil {
		l.log.Warn("hold member lookup failed", "member", hold.MemberEmail, "error", err)
		return
	}
	l.notifier.NotifyHoldAvailable(holder, book)
	if err := l.store.FulfillHold(hold.ID, l.now()); err != nil {
		l.log.Warn("fulfill hold failed", "hold", hold.ID, "error", err)
	}
}
