package calculation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/domain"
)

// maxSearchAge caps the retirement-age search; a salary that must run past
// this age is treated as FIRE being unattainable.
const maxSearchAge = 60

// fireTargetMultiple is the 4%-rule multiplier (1 / 0.04).
var fireTargetMultiple = decimal.NewFromInt(25)

// FireCalculator searches for the minimal sustainable retirement age of the
// household's main salary stream and derives the FIRE target from it.
type FireCalculator struct {
	Engine *ProjectionEngine
	Logger Logger
}

// NewFireCalculator creates a calculator with a fresh projection engine.
func NewFireCalculator() *FireCalculator {
	return &FireCalculator{Engine: NewProjectionEngine(), Logger: NopLogger{}}
}

// Calculate runs the full FIRE analysis. The search re-runs the projection
// engine once per candidate age (up to ~30 runs), checking ctx between
// candidates. On an unattainable search YearsToFire is -1 and the returned
// target falls back to the 4%-rule number so charts remain renderable.
func (fc *FireCalculator) Calculate(ctx context.Context, input *domain.FireCalculationInput) (*domain.FireCalculationResult, error) {
	annualExpenses := input.AnnualExpensesAt(input.CurrentAge)
	currentAssets := InitialAssetValue(input)

	if len(input.SalaryPlans) == 0 {
		// No salary to retire from: static 4%-rule target.
		required := annualExpenses.Mul(fireTargetMultiple)
		details := fc.Engine.Run(input)
		return fc.buildResult(input, details, 0, input.CurrentAge, required, currentAssets, currentAssets.GreaterThanOrEqual(required)), nil
	}

	mainIdx := fc.highestIncomePlan(input)
	plan := &input.SalaryPlans[mainIdx]

	checkAge := plan.EndAge
	if checkAge > maxSearchAge {
		checkAge = maxSearchAge
	}

	fireAge := -1
	if ok, err := fc.canAchieveFire(ctx, input, mainIdx, checkAge); err != nil {
		return nil, err
	} else if !ok {
		// Working longer: first sustainable age between checkAge+1 and 60.
		for age := checkAge + 1; age <= maxSearchAge; age++ {
			ok, err := fc.canAchieveFire(ctx, input, mainIdx, age)
			if err != nil {
				return nil, err
			}
			if ok {
				fireAge = age
				break
			}
		}
	} else {
		// Retiring earlier: greedy backward walk while solvency holds.
		// Assumes solvency is monotonic in the retirement age.
		fireAge = checkAge
		for age := checkAge - 1; age >= plan.StartAge; age-- {
			ok, err := fc.canAchieveFire(ctx, input, mainIdx, age)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			fireAge = age
		}
	}

	if fireAge < 0 {
		fc.Logger.Infof("fire unattainable through age %d; reporting 4%%-rule target", maxSearchAge)
		required := annualExpenses.Mul(fireTargetMultiple)
		details := fc.Engine.Run(input)
		result := fc.buildResult(input, details, -1, -1, required, currentAssets, false)
		return result, nil
	}

	// Final re-run at the found age; the required assets are read off the
	// simulated year matching fireAge.
	final := input.DeepCopy()
	final.SalaryPlans[mainIdx].EndAge = fireAge
	details := fc.Engine.Run(final)

	required := decimal.Zero
	if idx := clampIndex(fireAge-input.CurrentAge, len(details)); idx >= 0 {
		required = details[idx].TotalAssets
	}

	yearsToFire := fireAge - input.CurrentAge
	if yearsToFire < 0 {
		yearsToFire = 0
	}

	return fc.buildResult(input, details, yearsToFire, fireAge, required, currentAssets, true), nil
}

// highestIncomePlan returns the index of the salary plan with the largest
// currency-resolved annual amount.
func (fc *FireCalculator) highestIncomePlan(input *domain.FireCalculationInput) int {
	best := 0
	bestAmount := decimal.Zero
	for i := range input.SalaryPlans {
		p := &input.SalaryPlans[i]
		amount := ResolveCurrency(p.AnnualAmount, p.Currency, input.ExchangeRate)
		if amount.GreaterThan(bestAmount) {
			best = i
			bestAmount = amount
		}
	}
	return best
}

// canAchieveFire re-runs the full projection with the main salary plan
// ending at the candidate age and reports whether the household stays worth
// at least one unit of currency at the horizon.
func (fc *FireCalculator) canAchieveFire(ctx context.Context, input *domain.FireCalculationInput, planIdx, endAge int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	trial := input.DeepCopy()
	trial.SalaryPlans[planIdx].EndAge = endAge
	details := fc.Engine.Run(trial)
	if len(details) == 0 {
		return false, nil
	}
	return details[len(details)-1].TotalAssets.GreaterThanOrEqual(decimal.NewFromInt(1)), nil
}

func (fc *FireCalculator) buildResult(input *domain.FireCalculationInput, details []domain.YearlyDetail, yearsToFire, fireAge int, required, currentAssets decimal.Decimal, achievable bool) *domain.FireCalculationResult {
	projections := make([]domain.FireProjection, 0, len(details))
	for i := range details {
		d := &details[i]
		display := input.AnnualExpensesAt(d.Age)
		target := d.LivingExpense.Mul(fireTargetMultiple)
		projections = append(projections, domain.FireProjection{
			Year:                      d.Year,
			Age:                       d.Age,
			TotalAssets:               d.TotalAssets,
			DisplayExpenses:           display,
			InflationAdjustedExpenses: d.LivingExpense,
			FireAchieved:              d.TotalAssets.GreaterThanOrEqual(target) && target.IsPositive(),
		})
	}

	projected := decimal.Zero
	if len(details) > 0 {
		projected = details[len(details)-1].TotalAssets
	}

	shortfall := decimal.Zero
	if yearsToFire > 0 {
		gap := required.Sub(currentAssets)
		if gap.IsPositive() {
			shortfall = gap.Div(decimal.NewFromInt(int64(yearsToFire * monthsPerYear)))
		}
	}

	return &domain.FireCalculationResult{
		YearsToFire:      yearsToFire,
		FireAge:          fireAge,
		RequiredAssets:   required,
		ProjectedAssets:  projected,
		IsFireAchievable: achievable,
		MonthlyShortfall: shortfall,
		Projections:      projections,
		Details:          details,
	}
}

func clampIndex(idx, length int) int {
	if length == 0 {
		return -1
	}
	if idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}
