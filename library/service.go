package library

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Field length limits for catalog entries, applied after trimming.
const (
	maxTitleLen  = 200
	maxAuthorLen = 100
)

// Service implements the circulation operations on top of an injected Store.
// It holds no state of its own beyond the store handle and a clock.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires a Service to its store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ------------------ Catalog ------------------

// AddBookToCatalog validates and persists a new title. Every copy starts on
// the shelf. On success the returned message names the book.
func (s *Service) AddBookToCatalog(title, author, isbn string, totalCopies int) (string, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	if title == "" {
		return "", errors.New("Title is required.")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", errors.New("Title must be less than 200 characters.")
	}
	if author == "" {
		return "", errors.New("Author is required.")
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "", errors.New("Author must be less than 100 characters.")
	}
	if len(isbn) != 13 {
		return "", errors.New("ISBN must be exactly 13 digits.")
	}
	if !allDigits(isbn) {
		return "", errors.New("ISBN must contain only digits.")
	}
	if totalCopies <= 0 {
		return "", errors.New("Total copies must be a positive integer.")
	}

	existing, err := s.store.FindBookByISBN(isbn)
	if err != nil {
		return "", errors.Wrap(err, "Database error occurred while checking the ISBN")
	}
	if existing != nil {
		return "", ErrDuplicateISBN
	}

	if _, err := s.store.CreateBook(title, author, isbn, totalCopies); err != nil {
		return "", errors.Wrap(err, "Database error occurred while adding the book")
	}
	return fmt.Sprintf("Book %q has been successfully added to the catalog.", title), nil
}

// SearchCatalog looks up books by title, author or isbn. A blank query never
// touches the store; neither does an isbn query that is not a well-formed
// 13-digit string exactly as given, padding included. Unknown search types
// fall back to title search.
func (s *Service) SearchCatalog(query, searchType string) ([]*Book, error) {
	switch searchType {
	case "title", "author", "isbn":
	default:
		searchType = "title"
	}

	// The raw query must be the ISBN; a padded one is not cleaned up.
	if searchType == "isbn" && !ValidISBN(query) {
		return []*Book{}, nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []*Book{}, nil
	}

	books, err := s.store.SearchBooks(query, searchType)
	if err != nil {
		return nil, errors.Wrap(err, "Database error occurred while searching the catalog")
	}
	return books, nil
}

// ListBooks returns the full catalog.
func (s *Service) ListBooks() ([]*Book, error) {
	return s.store.ListAllBooks()
}
