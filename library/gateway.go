package library

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SimulatedGateway is the stand-in payment processor used outside of tests.
// It approves every well-formed request and issues transaction ids with the
// standard prefix. Swap in a real processor by implementing PaymentGateway.
type SimulatedGateway struct{}

// NewSimulatedGateway returns a gateway that always approves.
func NewSimulatedGateway() *SimulatedGateway { return &SimulatedGateway{} }

// Charge approves the payment and mints a fresh transaction id.
func (g *SimulatedGateway) Charge(patronID string, amount decimal.Decimal, description string) (ChargeResult, error) {
	if !amount.IsPositive() {
		return ChargeResult{Message: "Charge amount must be greater than 0."}, nil
	}
	return ChargeResult{
		Approved:      true,
		TransactionID: TransactionIDPrefix + uuid.NewString(),
		Message:       fmt.Sprintf("Charged $%s to patron %s (%s).", amount.StringFixed(2), patronID, description),
	}, nil
}

// Refund approves any refund quoting a known-looking transaction id.
func (g *SimulatedGateway) Refund(transactionID string, amount decimal.Decimal) (RefundResult, error) {
	return RefundResult{
		Approved: true,
		Message:  fmt.Sprintf("Refund of $%s processed for transaction %s.", amount.StringFixed(2), transactionID),
	}, nil
}
