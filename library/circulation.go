package library

import (
	"fmt"

	"github.com/pkg/errors"
)

// BorrowBook opens a 14-day loan of bookID to the patron and takes one copy
// off the shelf. Record creation and the availability decrement are two
// separate store writes; if the second fails the first is reported but not
// rolled back, matching the store contract.
func (s *Service) BorrowBook(patronID string, bookID int64) (string, error) {
	if !ValidPatronID(patronID) {
		return "", ErrInvalidPatronID
	}

	book, err := s.store.FindBookByID(bookID)
	if err != nil {
		return "", errors.Wrap(err, "Database error occurred while looking up the book")
	}
	if book == nil {
		return "", ErrBookNotFound
	}
	if book.AvailableCopies <= 0 {
		return "", ErrBookUnavailable
	}

	active, err := s.store.CountActiveBorrows(patronID)
	if err != nil {
		return "", errors.Wrap(err, "Database error occurred while counting active borrows")
	}
	// NOTE: the strictly-greater comparison lets a patron holding exactly 5
	// books take a sixth. Almost certainly unintended, but the regression
	// suite pins this boundary, so changing it is a behavior break.
	if active > BorrowLimit {
		return "", ErrBorrowLimit
	}

	borrowDate := s.now()
	dueDate := borrowDate.AddDate(0, 0, LoanPeriodDays)

	if _, err := s.store.CreateBorrowRecord(patronID, bookID, borrowDate, dueDate); err != nil {
		return "", errors.Wrap(err, "Database error occurred while creating borrow record")
	}
	if err := s.store.AdjustBookAvailability(bookID, -1); err != nil {
		return "", errors.Wrap(err, "Database error occurred while updating book availability")
	}

	return fmt.Sprintf("Successfully borrowed %q. Due date: %s.", book.Title, dueDate.Format("2006-01-02")), nil
}

// ReturnBook closes the patron's open loan of bookID, puts the copy back on
// the shelf and reports any late fee. The fee is assessed against the loan's
// original due date and the moment of return.
func (s *Service) ReturnBook(patronID string, bookID int64) (string, error) {
	if !ValidPatronID(patronID) {
		return "", ErrInvalidPatronID
	}

	book, err := s.store.FindBookByID(bookID)
	if err != nil {
		return "", errors.Wrap(err, "Database error occurred while looking up the book")
	}
	if book == nil {
		return "", ErrBookNotFound
	}

	record, err := s.store.FindActiveBorrowRecord(patronID, bookID)
	if err != nil {
		return "", errors.Wrap(err, "Database error occurred while looking up the borrow record")
	}
	if record == nil {
		return "", ErrNoActiveBorrow
	}

	if err := s.store.AdjustBookAvailability(bookID, 1); err != nil {
		return "", errors.Wrap(err, "Database error occurred while updating book availability")
	}

	returnDate := s.now()
	if err := s.store.SetReturnDate(patronID, bookID, returnDate); err != nil {
		return "", errors.Wrap(err, "Database error occurred while updating borrow record return date")
	}

	fee, daysOverdue := AssessLateFee(record.DueDate, returnDate)
	if daysOverdue > 0 {
		return fmt.Sprintf("Book %q returned successfully. Late fee: $%s (%d days overdue).",
			book.Title, fee.StringFixed(2), daysOverdue), nil
	}
	return fmt.Sprintf("Book %q returned successfully. No late fees.", book.Title), nil
}

// CalculateLateFee assesses the fee owed right now on the patron's open loan
// of bookID. Failures are reported in the assessment itself rather than as an
// error, so one bad record can't abort an aggregate report.
func (s *Service) CalculateLateFee(patronID string, bookID int64) FeeAssessment {
	if !ValidPatronID(patronID) {
		return feeError(ErrInvalidPatronID.Error())
	}

	record, err := s.store.FindActiveBorrowRecord(patronID, bookID)
	if err != nil {
		return feeError("Database error occurred while looking up the borrow record.")
	}
	if record == nil {
		return feeError("No active borrow record found for this patron and book.")
	}

	fee, daysOverdue := AssessLateFee(record.DueDate, s.now())
	if daysOverdue == 0 {
		return FeeAssessment{
			FeeAmount:   fee,
			DaysOverdue: 0,
			Status:      StatusSuccess,
			Message:     "Book is not overdue.",
		}
	}
	return FeeAssessment{
		FeeAmount:   fee,
		DaysOverdue: daysOverdue,
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("Late fee calculated for %d day(s) overdue.", daysOverdue),
	}
}

func feeError(msg string) FeeAssessment {
	return FeeAssessment{Status: StatusError, Message: msg}
}
