package library

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionIDPrefix is the gateway's transaction-id convention. Refunds
// quoting an id without it are rejected before the gateway is contacted.
const TransactionIDPrefix = "txn_"

// ChargeResult is the gateway's answer to a charge attempt. Approved=false
// with a nil error means the charge was declined, not that the call failed.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Message       string
}

// RefundResult is the gateway's answer to a refund attempt.
type RefundResult struct {
	Approved bool
	Message  string
}

// PaymentGateway is the external payment processor. A returned error means
// the call itself failed (network, timeout); the service converts such errors
// into reported payment failures and never lets them escape.
type PaymentGateway interface {
	Charge(patronID string, amount decimal.Decimal, description string) (ChargeResult, error)
	Refund(transactionID string, amount decimal.Decimal) (RefundResult, error)
}

// PayLateFees charges the patron's outstanding fee on one book through the
// supplied gateway. The gateway is a parameter, not a Service field, so tests
// and callers choose the processor per call.
func (s *Service) PayLateFees(patronID string, bookID int64, gateway PaymentGateway) PaymentResult {
	if !ValidPatronID(patronID) {
		return PaymentResult{Message: ErrInvalidPatronID.Error()}
	}

	// A failed assessment carries a zero fee, so it lands in the same
	// rejection as a book that simply isn't overdue.
	assessment := s.CalculateLateFee(patronID, bookID)
	if !assessment.FeeAmount.IsPositive() {
		return PaymentResult{Message: "No late fees to pay for this book."}
	}

	book, err := s.store.FindBookByID(bookID)
	if err != nil || book == nil {
		return PaymentResult{Message: ErrBookNotFound.Error()}
	}

	description := fmt.Sprintf("Late fees for '%s'", book.Title)
	charge, err := s.chargeSafely(gateway, patronID, assessment.FeeAmount, description)
	if err != nil {
		return PaymentResult{Message: fmt.Sprintf("Payment processing error: %v", err)}
	}
	if !charge.Approved {
		return PaymentResult{Message: fmt.Sprintf("Payment failed: %s", charge.Message)}
	}
	return PaymentResult{
		OK:            true,
		Message:       fmt.Sprintf("Payment successful! %s", charge.Message),
		TransactionID: charge.TransactionID,
	}
}

// RefundLateFeePayment reverses a prior fee charge. Ill-formed transaction
// ids and out-of-range amounts are rejected without contacting the gateway;
// the per-book fee cap bounds any legitimate refund.
func (s *Service) RefundLateFeePayment(transactionID string, amount decimal.Decimal, gateway PaymentGateway) PaymentResult {
	if !strings.HasPrefix(transactionID, TransactionIDPrefix) {
		return PaymentResult{Message: "Invalid transaction ID."}
	}
	if !amount.IsPositive() {
		return PaymentResult{Message: "Refund amount must be greater than 0."}
	}
	if amount.GreaterThan(MaxLateFee) {
		return PaymentResult{Message: "Refund amount exceeds maximum late fee."}
	}

	refund, err := s.refundSafely(gateway, transactionID, amount)
	if err != nil {
		return PaymentResult{Message: fmt.Sprintf("Refund processing error: %v", err)}
	}
	if !refund.Approved {
		return PaymentResult{Message: fmt.Sprintf("Refund failed: %s", refund.Message)}
	}
	return PaymentResult{OK: true, Message: refund.Message, TransactionID: transactionID}
}

// chargeSafely shields the service from a panicking gateway implementation;
// a panic surfaces as an ordinary payment error.
func (s *Service) chargeSafely(gateway PaymentGateway, patronID string, amount decimal.Decimal, description string) (result ChargeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return gateway.Charge(patronID, amount, description)
}

func (s *Service) refundSafely(gateway PaymentGateway, transactionID string, amount decimal.Decimal) (result RefundResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return gateway.Refund(transactionID, amount)
}
