package library

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PatronStatus reports everything a front desk needs about one patron: open
// loans, total fees owed on them, and past returns. Per-book fee failures are
// skipped rather than failing the whole report; only successful assessments
// contribute to the total. List fields are always non-nil.
func (s *Service) PatronStatus(patronID string) (*StatusReport, error) {
	if !ValidPatronID(patronID) {
		return nil, ErrInvalidPatronID
	}

	borrowed, err := s.store.ListActiveBorrows(patronID)
	if err != nil {
		return nil, errors.Wrap(err, "Database error occurred while listing active borrows")
	}
	if borrowed == nil {
		borrowed = []*BorrowRecord{}
	}

	total := decimal.Zero
	for _, rec := range borrowed {
		assessment := s.CalculateLateFee(patronID, rec.BookID)
		if assessment.Status != StatusSuccess {
			continue
		}
		total = total.Add(assessment.FeeAmount)
	}

	history, err := s.store.ListReturnedHistory(patronID)
	if err != nil {
		return nil, errors.Wrap(err, "Database error occurred while listing borrowing history")
	}
	if history == nil {
		history = []*BorrowRecord{}
	}

	return &StatusReport{
		PatronID:         patronID,
		BorrowedBooks:    borrowed,
		TotalLateFees:    total.Round(2),
		NumBooksBorrowed: len(borrowed),
		History:          history,
	}, nil
}
