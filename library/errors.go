package library

import "errors"

// Sentinel errors for every failure a caller is expected to branch on. The
// message text is part of the contract: the CLI prints it verbatim and tests
// assert on it, so treat changes as breaking.
var (
	ErrInvalidPatronID = errors.New("Invalid patron ID. Must be exactly 6 digits.")
	ErrBookNotFound    = errors.New("Book not found.")
	ErrBookUnavailable = errors.New("This book is currently not available.")
	ErrBorrowLimit     = errors.New("You have reached the maximum borrowing limit of 5 books.")
	ErrNoActiveBorrow  = errors.New("No active borrow record found. This patron did not borrow this book.")
	ErrDuplicateISBN   = errors.New("A book with this ISBN already exists.")
)
