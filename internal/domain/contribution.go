package domain

import "github.com/shopspring/decimal"

// AggregatedContribution is the total contributed by one sender.
// Derived from a Ledger; recomputable at any time.
type AggregatedContribution struct {
	Address Address         `json:"affectedAddress"`
	Amount  decimal.Decimal `json:"amount"` // MIST
}
