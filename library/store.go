package library

import "time"

// Store is the persistence boundary for the circulation service. The service
// never reaches for a global connection; a Store is handed to it explicitly so
// tests can substitute an in-memory database or a mock.
//
// Lookup methods return (nil, nil) when no row matches; a non-nil error always
// means the store itself failed. Every call is synchronous and self-contained:
// the service performs multi-step writes as separate calls with no transaction
// spanning them, so a failure between steps is reported, not rolled back.
type Store interface {
	FindBookByID(id int64) (*Book, error)
	FindBookByISBN(isbn string) (*Book, error)
	CreateBook(title, author, isbn string, totalCopies int) (int64, error)
	AdjustBookAvailability(id int64, delta int) error
	ListAllBooks() ([]*Book, error)

	// SearchBooks matches case-insensitive substrings for the "title" and
	// "author" fields and exact strings for "isbn". Query normalization and
	// field fallback happen in the service, not here.
	SearchBooks(query, field string) ([]*Book, error)

	CreateBorrowRecord(patronID string, bookID int64, borrowDate, dueDate time.Time) (int64, error)
	FindActiveBorrowRecord(patronID string, bookID int64) (*BorrowRecord, error)
	SetReturnDate(patronID string, bookID int64, when time.Time) error
	CountActiveBorrows(patronID string) (int, error)
	ListActiveBorrows(patronID string) ([]*BorrowRecord, error)
	ListReturnedHistory(patronID string) ([]*BorrowRecord, error)
}
