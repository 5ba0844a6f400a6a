package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/fireplan/internal/domain"
)

// drawdownInput is the no-asset, no-income reference scenario: expenses only,
// zero inflation, from age 30 to 90.
func drawdownInput() *domain.FireCalculationInput {
	return &domain.FireCalculationInput{
		CurrentAge:     30,
		LifeExpectancy: 90,
		InflationRate:  decimal.Zero,
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 30, EndAge: 90, MonthlyExpenses: decimal.NewFromInt(200_000)},
		},
	}
}

func TestProjectionEngine_PureDrawdownDecreasesLinearly(t *testing.T) {
	engine := NewProjectionEngine()
	details := engine.Run(drawdownInput())

	require.Len(t, details, 61)

	yearly := decimal.NewFromInt(2_400_000)
	for i, d := range details {
		expectedCash := yearly.Mul(decimal.NewFromInt(int64(i + 1))).Neg()
		assert.True(t, d.CashBalance.Equal(expectedCash), "year %d: cash %s, want %s", i, d.CashBalance, expectedCash)
		assert.True(t, d.TotalAssets.IsZero(), "year %d: totalAssets floored at 0, got %s", i, d.TotalAssets)
	}
}

func TestProjectionEngine_TotalAssetsNeverNegative(t *testing.T) {
	rate := decimal.NewFromInt(1)
	input := &domain.FireCalculationInput{
		CurrentAge:     40,
		LifeExpectancy: 85,
		InflationRate:  decimal.NewFromInt(2),
		AssetHoldings: []domain.AssetHolding{
			{ID: "fund", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(5_000_000), Currency: domain.CurrencyJPY},
		},
		Loans: []domain.Loan{
			{ID: "home", Balance: decimal.NewFromInt(20_000_000), InterestRate: &rate, MonthlyPayment: decimal.NewFromInt(120_000)},
		},
		SalaryPlans: []domain.SalaryPlan{
			{ID: "main", AnnualAmount: decimal.NewFromInt(6_000_000), Currency: domain.CurrencyJPY, StartAge: 40, EndAge: 55},
		},
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 40, EndAge: 85, MonthlyExpenses: decimal.NewFromInt(300_000)},
		},
	}

	details := NewProjectionEngine().Run(input)
	require.NotEmpty(t, details)

	for _, d := range details {
		assert.False(t, d.TotalAssets.IsNegative(), "age %d: totalAssets %s", d.Age, d.TotalAssets)

		// totalAssets must equal clamp(sum(balances) + cash, min=0).
		sum := d.CashBalance
		for _, b := range d.AssetBalances {
			sum = sum.Add(b)
		}
		if sum.IsNegative() {
			sum = decimal.Zero
		}
		assert.True(t, d.TotalAssets.Equal(sum), "age %d: totalAssets %s, want %s", d.Age, d.TotalAssets, sum)
	}
}

func TestProjectionEngine_ExpenseSegmentGapYieldsZero(t *testing.T) {
	input := drawdownInput()
	// Leave ages 40-49 uncovered.
	input.ExpenseSegments = []domain.ExpenseSegment{
		{ID: "a", StartAge: 30, EndAge: 39, MonthlyExpenses: decimal.NewFromInt(200_000)},
		{ID: "b", StartAge: 50, EndAge: 90, MonthlyExpenses: decimal.NewFromInt(200_000)},
	}

	details := NewProjectionEngine().Run(input)

	for _, d := range details {
		if d.Age >= 40 && d.Age <= 49 {
			assert.True(t, d.LivingExpense.IsZero(), "age %d: gap must cost nothing, got %s", d.Age, d.LivingExpense)
		} else {
			assert.True(t, d.LivingExpense.Equal(decimal.NewFromInt(2_400_000)), "age %d: got %s", d.Age, d.LivingExpense)
		}
	}
}

func TestProjectionEngine_StreamsRespectAgeWindows(t *testing.T) {
	input := &domain.FireCalculationInput{
		CurrentAge:     58,
		LifeExpectancy: 70,
		InflationRate:  decimal.Zero,
		SalaryPlans: []domain.SalaryPlan{
			{ID: "salary", AnnualAmount: decimal.NewFromInt(5_000_000), Currency: domain.CurrencyJPY, StartAge: 25, EndAge: 60},
		},
		PensionPlans: []domain.PensionPlan{
			{ID: "kosei", AnnualAmount: decimal.NewFromInt(1_800_000), Currency: domain.CurrencyJPY, StartAge: 65, EndAge: 100},
		},
		SpecialIncomes: []domain.SpecialIncome{
			{ID: "severance", Amount: decimal.NewFromInt(10_000_000), TargetAge: 60},
		},
		SpecialExpenses: []domain.SpecialExpense{
			{ID: "renovation", Amount: decimal.NewFromInt(3_000_000), TargetAge: 65},
		},
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 58, EndAge: 100, MonthlyExpenses: decimal.NewFromInt(250_000)},
		},
	}

	details := NewProjectionEngine().Run(input)
	byAge := map[int]domain.YearlyDetail{}
	for _, d := range details {
		byAge[d.Age] = d
	}

	// Salary active through 60 inclusive, gone at 61.
	assert.Len(t, byAge[60].Salaries, 1)
	assert.Empty(t, byAge[61].Salaries)

	// Pension starts exactly at 65.
	assert.Empty(t, byAge[64].Pensions)
	assert.Len(t, byAge[65].Pensions, 1)

	// One-shot events fire only on their target age.
	assert.Len(t, byAge[60].SpecialIncomes, 1)
	assert.Empty(t, byAge[61].SpecialIncomes)
	assert.Len(t, byAge[65].SpecialExpenses, 1)
	assert.Empty(t, byAge[66].SpecialExpenses)
}

func TestProjectionEngine_InflationCompoundsFromYearZero(t *testing.T) {
	input := &domain.FireCalculationInput{
		CurrentAge:     30,
		LifeExpectancy: 32,
		InflationRate:  decimal.NewFromInt(10),
		SalaryPlans: []domain.SalaryPlan{
			{ID: "salary", AnnualAmount: decimal.NewFromInt(1_000_000), Currency: domain.CurrencyJPY, StartAge: 30, EndAge: 60},
		},
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 30, EndAge: 60, MonthlyExpenses: decimal.NewFromInt(10_000)},
		},
	}

	details := NewProjectionEngine().Run(input)
	require.Len(t, details, 3)

	// Year 0 is un-inflated; year 2 carries (1.1)^2.
	assert.True(t, details[0].Salaries["salary"].Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, details[2].Salaries["salary"].Equal(decimal.NewFromInt(1_210_000)), "got %s", details[2].Salaries["salary"])
	assert.True(t, details[0].LivingExpense.Equal(decimal.NewFromInt(120_000)))
	assert.True(t, details[2].LivingExpense.Equal(decimal.NewFromInt(145_200)), "got %s", details[2].LivingExpense)
}

func TestProjectionEngine_DeficitWithdrawsLowYieldFirst(t *testing.T) {
	input := &domain.FireCalculationInput{
		CurrentAge:     65,
		LifeExpectancy: 66,
		InflationRate:  decimal.Zero,
		AssetHoldings: []domain.AssetHolding{
			{ID: "bonds", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(10_000_000), Currency: domain.CurrencyJPY, ExpectedReturn: decPtr(2)},
			{ID: "stocks", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(10_000_000), Currency: domain.CurrencyJPY, ExpectedReturn: decPtr(8)},
		},
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 65, EndAge: 100, MonthlyExpenses: decimal.NewFromInt(100_000)},
		},
	}

	details := NewProjectionEngine().Run(input)
	first := details[0]

	assert.True(t, first.WithdrawnHoldings["bonds"])
	assert.False(t, first.WithdrawnHoldings["stocks"])

	// The stock balance only saw its own growth, never the withdrawal.
	assert.True(t, first.AssetBalances["stocks"].Equal(decimal.NewFromInt(10_800_000)), "got %s", first.AssetBalances["stocks"])
	// Bonds grew 2% then covered the 1.2M deficit.
	assert.True(t, first.AssetBalances["bonds"].Equal(decimal.NewFromInt(9_000_000)), "got %s", first.AssetBalances["bonds"])
	// Cash returns to zero once the withdrawal covers the deficit.
	assert.True(t, first.CashBalance.IsZero(), "got %s", first.CashBalance)
}

func TestProjectionEngine_SurplusInvestedByInitialRatio(t *testing.T) {
	input := &domain.FireCalculationInput{
		CurrentAge:     30,
		LifeExpectancy: 31,
		InflationRate:  decimal.Zero,
		AssetHoldings: []domain.AssetHolding{
			{ID: "bonds", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(1_000_000), Currency: domain.CurrencyJPY, ExpectedReturn: decPtr(2)},
			{ID: "stocks", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(3_000_000), Currency: domain.CurrencyJPY, ExpectedReturn: decPtr(8)},
		},
		SalaryPlans: []domain.SalaryPlan{
			{ID: "salary", AnnualAmount: decimal.NewFromInt(4_000_000), Currency: domain.CurrencyJPY, StartAge: 30, EndAge: 60},
		},
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 30, EndAge: 60, MonthlyExpenses: decimal.NewFromInt(300_000)},
		},
	}

	details := NewProjectionEngine().Run(input)
	first := details[0]

	// Surplus 400_000 split 1:3 on top of each holding's own growth.
	assert.True(t, first.AssetBalances["bonds"].Equal(decimal.NewFromInt(1_120_000)), "got %s", first.AssetBalances["bonds"])
	assert.True(t, first.AssetBalances["stocks"].Equal(decimal.NewFromInt(3_540_000)), "got %s", first.AssetBalances["stocks"])
	assert.True(t, first.CashBalance.IsZero(), "surplus must be swept into assets, got %s", first.CashBalance)
	assert.Empty(t, first.WithdrawnHoldings)
}

func TestProjectionEngine_SurplusStaysAsCashWithoutHoldings(t *testing.T) {
	input := &domain.FireCalculationInput{
		CurrentAge:     30,
		LifeExpectancy: 31,
		InflationRate:  decimal.Zero,
		SalaryPlans: []domain.SalaryPlan{
			{ID: "salary", AnnualAmount: decimal.NewFromInt(4_000_000), Currency: domain.CurrencyJPY, StartAge: 30, EndAge: 60},
		},
		ExpenseSegments: []domain.ExpenseSegment{
			{ID: "living", StartAge: 30, EndAge: 60, MonthlyExpenses: decimal.NewFromInt(300_000)},
		},
	}

	details := NewProjectionEngine().Run(input)
	first := details[0]

	assert.True(t, first.CashBalance.Equal(decimal.NewFromInt(400_000)), "got %s", first.CashBalance)
	assert.True(t, first.TotalAssets.Equal(decimal.NewFromInt(400_000)))
}

func TestProjectionEngine_LoanPaymentFeedsExpenses(t *testing.T) {
	input := drawdownInput()
	input.LifeExpectancy = 31
	input.ExpenseSegments = nil
	input.Loans = []domain.Loan{
		{ID: "car", Balance: decimal.NewFromInt(1_200_000), MonthlyPayment: decimal.NewFromInt(100_000)},
	}

	details := NewProjectionEngine().Run(input)
	require.Len(t, details, 2)

	assert.True(t, details[0].LoanPayment.Equal(decimal.NewFromInt(1_200_000)))
	assert.True(t, details[0].LoanBalances["car"].IsZero())
	assert.True(t, details[1].LoanPayment.IsZero(), "paid-off loan must stop costing")
}
