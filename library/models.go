package library

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book represents a title in the catalog. A book can exist in multiple
// physical copies; AvailableCopies tracks how many are on the shelf.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// BorrowRecord is one loan of one book to one patron. ReturnDate is nil while
// the loan is active and set exactly once when the book comes back. Title and
// Author are denormalized from the books table for reporting.
type BorrowRecord struct {
	ID         int64      `json:"id"`
	PatronID   string     `json:"patron_id"`
	BookID     int64      `json:"book_id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Returned reports whether the loan has been closed.
func (r *BorrowRecord) Returned() bool { return r.ReturnDate != nil }

// FeeAssessment is the result of a late-fee calculation. It is derived on
// demand and never stored.
type FeeAssessment struct {
	FeeAmount   decimal.Decimal `json:"fee_amount"`
	DaysOverdue int             `json:"days_overdue"`
	Status      string          `json:"status"`
	Message     string          `json:"message"`
}

const (
	// StatusSuccess and StatusError are the two FeeAssessment outcomes.
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusReport aggregates a patron's current loans, owed fees and history.
type StatusReport struct {
	PatronID         string          `json:"patron_id"`
	BorrowedBooks    []*BorrowRecord `json:"currently_borrowed_books"`
	TotalLateFees    decimal.Decimal `json:"total_late_fees"`
	NumBooksBorrowed int             `json:"num_books_borrowed"`
	History          []*BorrowRecord `json:"borrowing_history"`
}

// PaymentResult is the outcome of a charge or refund attempt. Callers branch
// on OK; Message is stable enough to surface directly to the patron.
type PaymentResult struct {
	OK            bool   `json:"ok"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
}
