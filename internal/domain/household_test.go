package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetHolding_ExpectedReturnOrDefault(t *testing.T) {
	h := AssetHolding{}
	assert.True(t, h.ExpectedReturnOrDefault().Equal(decimal.NewFromInt(5)))

	er := decimal.NewFromFloat(2.5)
	h.ExpectedReturn = &er
	assert.True(t, h.ExpectedReturnOrDefault().Equal(er))
}

func TestAssetHolding_RawValue(t *testing.T) {
	h := AssetHolding{Quantity: decimal.NewFromInt(120), PricePerUnit: decimal.NewFromFloat(95.5)}
	assert.True(t, h.RawValue().Equal(decimal.NewFromInt(11460)))
}

func TestLoan_InterestRateOrDefault(t *testing.T) {
	l := Loan{}
	assert.True(t, l.InterestRateOrDefault().IsZero())

	ir := decimal.NewFromFloat(1.1)
	l.InterestRate = &ir
	assert.True(t, l.InterestRateOrDefault().Equal(ir))
}

func TestSalaryPlan_ActiveAt_InclusiveBounds(t *testing.T) {
	p := SalaryPlan{StartAge: 30, EndAge: 60}
	assert.False(t, p.ActiveAt(29))
	assert.True(t, p.ActiveAt(30))
	assert.True(t, p.ActiveAt(60))
	assert.False(t, p.ActiveAt(61))
}

func TestFireCalculationInput_MonthlyExpensesAt(t *testing.T) {
	in := FireCalculationInput{
		ExpenseSegments: []ExpenseSegment{
			{StartAge: 30, EndAge: 64, MonthlyExpenses: decimal.NewFromInt(300_000)},
			{StartAge: 65, EndAge: 90, MonthlyExpenses: decimal.NewFromInt(250_000)},
		},
	}

	assert.True(t, in.MonthlyExpensesAt(40).Equal(decimal.NewFromInt(300_000)))
	assert.True(t, in.MonthlyExpensesAt(65).Equal(decimal.NewFromInt(250_000)))
	assert.True(t, in.MonthlyExpensesAt(95).IsZero(), "uncovered age yields zero")
	assert.True(t, in.AnnualExpensesAt(40).Equal(decimal.NewFromInt(3_600_000)))
}

func TestFireCalculationInput_MonthlyExpensesAt_FirstSegmentWins(t *testing.T) {
	in := FireCalculationInput{
		ExpenseSegments: []ExpenseSegment{
			{StartAge: 30, EndAge: 50, MonthlyExpenses: decimal.NewFromInt(100)},
			{StartAge: 40, EndAge: 60, MonthlyExpenses: decimal.NewFromInt(200)},
		},
	}
	assert.True(t, in.MonthlyExpensesAt(45).Equal(decimal.NewFromInt(100)))
}

func TestFireCalculationInput_ProjectionYears(t *testing.T) {
	in := FireCalculationInput{CurrentAge: 30, LifeExpectancy: 90}
	assert.Equal(t, 61, in.ProjectionYears())

	in.LifeExpectancy = 30
	assert.Equal(t, 1, in.ProjectionYears())

	in.LifeExpectancy = 20
	assert.Equal(t, 0, in.ProjectionYears())
}

func TestFireCalculationInput_DeepCopyIsIndependent(t *testing.T) {
	er := decimal.NewFromInt(7)
	rate := decimal.NewFromInt(148)
	in := &FireCalculationInput{
		CurrentAge: 30,
		SalaryPlans: []SalaryPlan{
			{ID: "main", AnnualAmount: decimal.NewFromInt(8_000_000), StartAge: 30, EndAge: 60},
		},
		AssetHoldings: []AssetHolding{
			{ID: "fund", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(1_000_000), ExpectedReturn: &er},
		},
		ExchangeRate: &rate,
	}

	cp := in.DeepCopy()
	cp.SalaryPlans[0].EndAge = 45
	*cp.AssetHoldings[0].ExpectedReturn = decimal.NewFromInt(1)
	*cp.ExchangeRate = decimal.NewFromInt(100)

	assert.Equal(t, 60, in.SalaryPlans[0].EndAge)
	assert.True(t, in.AssetHoldings[0].ExpectedReturn.Equal(decimal.NewFromInt(7)))
	assert.True(t, in.ExchangeRate.Equal(decimal.NewFromInt(148)))
}

func TestYearlyDetail_Totals(t *testing.T) {
	yd := YearlyDetail{
		Salaries:       map[string]decimal.Decimal{"main": decimal.NewFromInt(8_000_000)},
		Pensions:       map[string]decimal.Decimal{"public": decimal.NewFromInt(1_800_000)},
		SpecialIncomes: map[string]decimal.Decimal{"bonus": decimal.NewFromInt(200_000)},
		LivingExpense:  decimal.NewFromInt(3_600_000),
		LoanPayment:    decimal.NewFromInt(1_140_000),
		SpecialExpenses: map[string]decimal.Decimal{
			"tuition": decimal.NewFromInt(500_000),
		},
	}

	require.True(t, yd.TotalIncome().Equal(decimal.NewFromInt(10_000_000)))
	require.True(t, yd.TotalExpense().Equal(decimal.NewFromInt(5_240_000)))
}
