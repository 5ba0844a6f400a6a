package domain

import (
	"github.com/shopspring/decimal"
)

// YearlyDetail is one immutable snapshot emitted by the yearly simulation
// engine. Maps are keyed by stream/holding ID (falling back to name when the
// ID is empty). A snapshot is never mutated after it is appended to a run.
type YearlyDetail struct {
	Year int `json:"year"` // 0-based index from the first simulated year
	Age  int `json:"age"`

	Salaries       map[string]decimal.Decimal `json:"salaries"`
	Pensions       map[string]decimal.Decimal `json:"pensions"`
	SpecialIncomes map[string]decimal.Decimal `json:"specialIncomes"`

	LivingExpense   decimal.Decimal            `json:"livingExpense"` // inflation-adjusted, twelve months
	LoanPayment     decimal.Decimal            `json:"loanPayment"`
	SpecialExpenses map[string]decimal.Decimal `json:"specialExpenses"`

	LoanBalances      map[string]decimal.Decimal `json:"loanBalances"`
	AssetBalances     map[string]decimal.Decimal `json:"assetBalances"`
	WithdrawnHoldings map[string]bool            `json:"withdrawnHoldings"`

	CashBalance decimal.Decimal `json:"cashBalance"`
	TotalAssets decimal.Decimal `json:"totalAssets"` // floored at zero
}

// TotalIncome sums every income stream in the snapshot.
func (yd *YearlyDetail) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, v := range yd.Salaries {
		total = total.Add(v)
	}
	for _, v := range yd.Pensions {
		total = total.Add(v)
	}
	for _, v := range yd.SpecialIncomes {
		total = total.Add(v)
	}
	return total
}

// TotalExpense sums every expense stream in the snapshot.
func (yd *YearlyDetail) TotalExpense() decimal.Decimal {
	total := yd.LivingExpense.Add(yd.LoanPayment)
	for _, v := range yd.SpecialExpenses {
		total = total.Add(v)
	}
	return total
}

// FireProjection is the chart-facing row derived from a YearlyDetail.
type FireProjection struct {
	Year                      int             `json:"year"`
	Age                       int             `json:"age"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	DisplayExpenses           decimal.Decimal `json:"displayExpenses"` // base-year amount
	InflationAdjustedExpenses decimal.Decimal `json:"inflationAdjustedExpenses"`
	FireAchieved              bool            `json:"fireAchieved"`
}

// FireCalculationResult is the deterministic output contract.
// YearsToFire is -1 when no retirement age within the searched range keeps
// the household solvent through the horizon; callers must check the sentinel.
type FireCalculationResult struct {
	YearsToFire      int              `json:"yearsToFire"`
	FireAge          int              `json:"fireAge"`
	RequiredAssets   decimal.Decimal  `json:"requiredAssets"`
	ProjectedAssets  decimal.Decimal  `json:"projectedAssets"`
	IsFireAchievable bool             `json:"isFireAchievable"`
	MonthlyShortfall decimal.Decimal  `json:"monthlyShortfall"`
	Projections      []FireProjection `json:"projections"`
	Details          []YearlyDetail   `json:"details,omitempty"`
}

// TrialYear is one simulated year inside a Monte Carlo trial, and doubles as
// the per-year row of a percentile band.
type TrialYear struct {
	Year                      int             `json:"year"`
	Age                       int             `json:"age"`
	Assets                    decimal.Decimal `json:"assets"`
	InflationAdjustedExpenses decimal.Decimal `json:"inflationAdjustedExpenses"`
	FireAchieved              bool            `json:"fireAchieved"`
}

// PercentileBand is one aggregated trajectory at a fixed percentile.
// SuccessProbability is identical across bands of the same run.
type PercentileBand struct {
	Percentile         int             `json:"percentile"`
	Projections        []TrialYear     `json:"projections"`
	SuccessProbability decimal.Decimal `json:"successProbability"`
}
