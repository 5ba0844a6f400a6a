package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/domain"
)

// ProjectionEngine runs the deterministic year-by-year simulation. Each
// simulated year depends on the previous year's asset, loan and cash state,
// so a run is strictly sequential; the engine itself carries no per-run
// state and is safe to share across runs.
type ProjectionEngine struct {
	Logger Logger
}

// NewProjectionEngine creates a projection engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// Run simulates every age from CurrentAge through LifeExpectancy inclusive
// and returns one immutable snapshot per year. Per-run state (ledger, loan
// balances, cash) lives in locals owned by this call.
func (pe *ProjectionEngine) Run(input *domain.FireCalculationInput) []domain.YearlyDetail {
	years := input.ProjectionYears()
	details := make([]domain.YearlyDetail, 0, years)

	one := decimal.NewFromInt(1)
	inflGrowth := one.Add(fractionFromPercent(input.InflationRate))
	inflFactor := one

	ledger := newAssetLedger(input.AssetHoldings, input.ExchangeRate)

	loans := make([]domain.Loan, len(input.Loans))
	copy(loans, input.Loans)

	cash := decimal.Zero

	for year := 0; year < years; year++ {
		age := input.CurrentAge + year

		salaries := make(map[string]decimal.Decimal)
		for i := range input.SalaryPlans {
			p := &input.SalaryPlans[i]
			if !p.ActiveAt(age) {
				continue
			}
			amount := ResolveCurrency(p.AnnualAmount, p.Currency, input.ExchangeRate).Mul(inflFactor)
			salaries[planKey(p.ID, p.Name)] = amount
		}

		pensions := make(map[string]decimal.Decimal)
		for i := range input.PensionPlans {
			p := &input.PensionPlans[i]
			if !p.ActiveAt(age) {
				continue
			}
			amount := ResolveCurrency(p.AnnualAmount, p.Currency, input.ExchangeRate).Mul(inflFactor)
			pensions[planKey(p.ID, p.Name)] = amount
		}

		specialIncomes := make(map[string]decimal.Decimal)
		for i := range input.SpecialIncomes {
			si := &input.SpecialIncomes[i]
			if si.TargetAge == age {
				specialIncomes[planKey(si.ID, si.Name)] = si.Amount
			}
		}

		// A gap in the expense segments yields zero for this age; that is
		// the documented behavior, not a validation failure.
		living := input.AnnualExpensesAt(age).Mul(inflFactor)

		loanPayment := decimal.Zero
		loanBalances := make(map[string]decimal.Decimal, len(loans))
		for i := range loans {
			if loans[i].Balance.IsPositive() {
				paid, remaining := AmortizeLoanYear(&loans[i])
				loans[i].Balance = remaining
				loanPayment = loanPayment.Add(paid)
			}
			loanBalances[planKey(loans[i].ID, loans[i].Name)] = loans[i].Balance
		}

		specialExpenses := make(map[string]decimal.Decimal)
		for i := range input.SpecialExpenses {
			se := &input.SpecialExpenses[i]
			if se.TargetAge == age {
				specialExpenses[planKey(se.ID, se.Name)] = se.Amount
			}
		}

		detail := domain.YearlyDetail{
			Year:            year,
			Age:             age,
			Salaries:        salaries,
			Pensions:        pensions,
			SpecialIncomes:  specialIncomes,
			LivingExpense:   living,
			LoanPayment:     loanPayment,
			SpecialExpenses: specialExpenses,
			LoanBalances:    loanBalances,
		}

		// Growth before cash flow: every holding compounds first, then the
		// year's surplus or deficit is settled against the ledger.
		ledger.grow()

		netCashFlow := detail.TotalIncome().Sub(detail.TotalExpense())
		cash = cash.Add(netCashFlow)

		withdrawn := map[string]bool{}
		if netCashFlow.IsNegative() {
			covered, touched := ledger.withdraw(netCashFlow.Neg())
			cash = cash.Add(covered)
			withdrawn = touched
		} else if netCashFlow.IsPositive() && ledger.hasTargets() {
			ledger.invest(netCashFlow)
			cash = cash.Sub(netCashFlow)
		}

		detail.WithdrawnHoldings = withdrawn
		detail.AssetBalances = ledger.balances()
		detail.CashBalance = cash

		total := ledger.total().Add(cash)
		if total.IsNegative() {
			total = decimal.Zero
		}
		detail.TotalAssets = total

		details = append(details, detail)

		inflFactor = inflFactor.Mul(inflGrowth)
	}

	return details
}

// InitialAssetValue resolves every holding to the reporting currency and
// sums the result; this is the portfolio's value before any simulation.
func InitialAssetValue(input *domain.FireCalculationInput) decimal.Decimal {
	total := decimal.Zero
	for i := range input.AssetHoldings {
		h := &input.AssetHoldings[i]
		total = total.Add(ResolveCurrency(h.RawValue(), h.Currency, input.ExchangeRate))
	}
	return total
}

func planKey(id, name string) string {
	if id != "" {
		return id
	}
	return name
}
