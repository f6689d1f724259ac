package library

import "errors"

// Search provides read-only catalog queries. Empty results are not errors.
type Search struct {
	store Store
}

// NewSearch returns search operations over the store.
func NewSearch(store Store) *Search {
	return &Search{store: store}
}

// ByTitle matches the title substring case-insensitively, in storage order.
func (s *Search) ByTitle(title string) ([]*Book, error) {
	return s.store.FindBooksByTitleContains(title)
}

// ByAuthor matches the author exactly.
func (s *Search) ByAuthor(author string) ([]*Book, error) {
	return s.store.FindBooksByAuthor(author)
}

// ByISBN returns the book with that ISBN, or nil when absent.
func (s *Search) ByISBN(isbn string) (*Book, error) {
	book, err := s.store.FindBookByISBN(isbn)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, nil
	}
	return book, err
}

// Dispatch runs the search selected by kind ("title", "author" or "isbn").
// Unrecognized kinds fail with InvalidSearchTypeError.
func (s *Search) Dispatch(kind, query string) ([]*Book, error) {
	switch kind {
	case "title":
		return s.ByTitle(query)
	case "author":
		return s.ByAuthor(query)
	case "isbn":
		book, err := s.ByISBN(query)
		if err != nil {
			return nil, err
		}
		if book == nil {
			return nil, nil
		}
		return []*Book{book}, nil
	}
	return nil, &InvalidSearchTypeError{Kind: kind}
}
