// Package aggregation folds a ledger into per-sender contributions.
package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"

	"sui-refund-ledger/internal/domain"
)

// Aggregation is the per-sender view of a ledger.
type Aggregation struct {
	Contributions  []domain.AggregatedContribution // ordered by address
	Entries        int
	LedgerTotal    decimal.Decimal
	AggregateTotal decimal.Decimal
}

// Aggregate sums entry amounts per sender.
func Aggregate(ledger domain.Ledger) *Aggregation {
	sums := make(map[domain.Address]decimal.Decimal)
	ledgerTotal := decimal.Zero
	for _, e := range ledger {
		sums[e.Sender] = sums[e.Sender].Add(e.Amount)
		ledgerTotal = ledgerTotal.Add(e.Amount)
	}

	contributions := make([]domain.AggregatedContribution, 0, len(sums))
	aggregateTotal := decimal.Zero
	for addr, amount := range sums {
		contributions = append(contributions, domain.AggregatedContribution{Address: addr, Amount: amount})
		aggregateTotal = aggregateTotal.Add(amount)
	}
	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].Address < contributions[j].Address
	})

	return &Aggregation{
		Contributions:  contributions,
		Entries:        ledger.Len(),
		LedgerTotal:    ledgerTotal,
		AggregateTotal: aggregateTotal,
	}
}

// Conserved reports whether aggregation preserved the ledger total.
func (a *Aggregation) Conserved() bool {
	return a.LedgerTotal.Equal(a.AggregateTotal)
}

// Addresses returns the contributing addresses in order.
func (a *Aggregation) Addresses() []domain.Address {
	out := make([]domain.Address, len(a.Contributions))
	for i, c := range a.Contributions {
		out[i] = c.Address
	}
	return out
}

// Lookup returns the contribution of addr.
func (a *Aggregation) Lookup(addr domain.Address) (decimal.Decimal, bool) {
	i := sort.Search(len(a.Contributions), func(i int) bool {
		return a.Contributions[i].Address >= addr
	})
	if i < len(a.Contributions) && a.Contributions[i].Address == addr {
		return a.Contributions[i].Amount, true
	}
	return decimal.Zero, false
}

// Distribution is the funding to deposit into the refund pool.
// Boosted is the extra half contributed on top of the base amount.
type Distribution struct {
	Base    decimal.Decimal
	Boosted decimal.Decimal
	Total   decimal.Decimal
}

// Distribute splits base into base and boosted funding.
// Boosted rounds down to a whole MIST.
func Distribute(base decimal.Decimal) Distribution {
	boosted := base.Div(decimal.NewFromInt(2)).Floor()
	return Distribution{
		Base:    base,
		Boosted: boosted,
		Total:   base.Add(boosted),
	}
}
