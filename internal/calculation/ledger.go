package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/domain"
)

// holdingState is the mutable working balance of one holding during a run.
type holdingState struct {
	key            string
	name           string
	balance        decimal.Decimal
	expectedReturn decimal.Decimal // fraction per year
	initialRatio   decimal.Decimal
}

// assetLedger owns every holding balance for one simulation run. It is
// reconstructed for each run and never shared; optimizer re-runs and Monte
// Carlo trials each build their own.
type assetLedger struct {
	holdings []holdingState
	ratioSum decimal.Decimal

	// withdrawal order: holding indexes sorted by ascending expected return,
	// fixed at construction
	drawOrder []int
}

// newAssetLedger resolves every holding to the reporting currency, records
// each holding's share of total initial value, and fixes the withdrawal
// order. Initial ratios are immutable for the life of the run.
func newAssetLedger(holdings []domain.AssetHolding, exchangeRate *decimal.Decimal) *assetLedger {
	l := &assetLedger{
		holdings: make([]holdingState, 0, len(holdings)),
		ratioSum: decimal.Zero,
	}

	totalValue := decimal.Zero
	for i := range holdings {
		h := &holdings[i]
		value := ResolveCurrency(h.RawValue(), h.Currency, exchangeRate)
		l.holdings = append(l.holdings, holdingState{
			key:            holdingKey(h),
			name:           h.Name,
			balance:        value,
			expectedReturn: fractionFromPercent(h.ExpectedReturnOrDefault()),
		})
		totalValue = totalValue.Add(value)
	}

	for i := range l.holdings {
		if totalValue.IsPositive() {
			l.holdings[i].initialRatio = l.holdings[i].balance.Div(totalValue)
		} else {
			l.holdings[i].initialRatio = decimal.Zero
		}
		l.ratioSum = l.ratioSum.Add(l.holdings[i].initialRatio)
	}

	l.drawOrder = make([]int, len(l.holdings))
	for i := range l.drawOrder {
		l.drawOrder[i] = i
	}
	sort.SliceStable(l.drawOrder, func(a, b int) bool {
		return l.holdings[l.drawOrder[a]].expectedReturn.LessThan(l.holdings[l.drawOrder[b]].expectedReturn)
	})

	return l
}

func holdingKey(h *domain.AssetHolding) string {
	if h.ID != "" {
		return h.ID
	}
	return h.Name
}

// grow applies one year of expected return to every holding. Growth runs
// before the year's cash flow is applied.
func (l *assetLedger) grow() {
	one := decimal.NewFromInt(1)
	for i := range l.holdings {
		l.holdings[i].balance = l.holdings[i].balance.Mul(one.Add(l.holdings[i].expectedReturn))
	}
}

// withdraw covers a deficit from holdings in ascending order of expected
// return, each draw capped at the holding's balance. It returns the total
// actually withdrawn and the set of holdings touched; the deficit may be
// only partially covered when the ledger runs dry.
func (l *assetLedger) withdraw(deficit decimal.Decimal) (decimal.Decimal, map[string]bool) {
	withdrawn := decimal.Zero
	touched := make(map[string]bool)

	remaining := deficit
	for _, idx := range l.drawOrder {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		h := &l.holdings[idx]
		if h.balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := remaining
		if take.GreaterThan(h.balance) {
			take = h.balance
		}
		h.balance = h.balance.Sub(take)
		withdrawn = withdrawn.Add(take)
		remaining = remaining.Sub(take)
		touched[h.key] = true
	}

	return withdrawn, touched
}

// invest distributes a surplus across holdings proportionally to each
// holding's initial ratio, preserving the original target allocation rather
// than the drifted current mix. Callers must check hasTargets first; with no
// holdings the surplus stays in cash.
func (l *assetLedger) invest(surplus decimal.Decimal) {
	for i := range l.holdings {
		share := surplus.Mul(l.holdings[i].initialRatio).Div(l.ratioSum)
		l.holdings[i].balance = l.holdings[i].balance.Add(share)
	}
}

// hasTargets reports whether the initial ratios sum to a nonzero value.
func (l *assetLedger) hasTargets() bool {
	return l.ratioSum.IsPositive()
}

// total sums all holding balances.
func (l *assetLedger) total() decimal.Decimal {
	sum := decimal.Zero
	for i := range l.holdings {
		sum = sum.Add(l.holdings[i].balance)
	}
	return sum
}

// balances returns a fresh map of holding balances keyed by holding ID.
func (l *assetLedger) balances() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.holdings))
	for i := range l.holdings {
		out[l.holdings[i].key] = l.holdings[i].balance
	}
	return out
}
