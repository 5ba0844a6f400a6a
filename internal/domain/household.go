package domain

import (
	"github.com/shopspring/decimal"
)

// Currency identifies the denomination of a monetary input.
type Currency string

const (
	CurrencyJPY Currency = "JPY"
	CurrencyUSD Currency = "USD"
)

// DefaultExpectedReturnPercent is applied to holdings that do not specify one.
var DefaultExpectedReturnPercent = decimal.NewFromInt(5)

// AssetHolding is a single position in the household portfolio. Quantity and
// PricePerUnit are in the holding's own currency; the engine resolves them to
// the reporting currency before use.
type AssetHolding struct {
	ID             string           `yaml:"id" json:"id"`
	Name           string           `yaml:"name" json:"name"`
	Quantity       decimal.Decimal  `yaml:"quantity" json:"quantity"`
	PricePerUnit   decimal.Decimal  `yaml:"price_per_unit" json:"pricePerUnit"`
	Currency       Currency         `yaml:"currency" json:"currency"`
	ExpectedReturn *decimal.Decimal `yaml:"expected_return,omitempty" json:"expectedReturn,omitempty"` // percent
}

// ExpectedReturnOrDefault returns the holding's expected annual return in
// percent, defaulting to 5 when unspecified.
func (h *AssetHolding) ExpectedReturnOrDefault() decimal.Decimal {
	if h.ExpectedReturn == nil {
		return DefaultExpectedReturnPercent
	}
	return *h.ExpectedReturn
}

// RawValue is quantity times unit price in the holding's own currency.
func (h *AssetHolding) RawValue() decimal.Decimal {
	return h.Quantity.Mul(h.PricePerUnit)
}

// Loan is an amortizing debt with a fixed monthly payment.
type Loan struct {
	ID             string           `yaml:"id" json:"id"`
	Name           string           `yaml:"name" json:"name"`
	Balance        decimal.Decimal  `yaml:"balance" json:"balance"`
	InterestRate   *decimal.Decimal `yaml:"interest_rate,omitempty" json:"interestRate,omitempty"` // percent per year
	MonthlyPayment decimal.Decimal  `yaml:"monthly_payment" json:"monthlyPayment"`
}

// InterestRateOrDefault returns the annual interest rate in percent,
// defaulting to 0 when unspecified.
func (l *Loan) InterestRateOrDefault() decimal.Decimal {
	if l.InterestRate == nil {
		return decimal.Zero
	}
	return *l.InterestRate
}

// SalaryPlan is a recurring income stream active for ages in
// [StartAge, EndAge] inclusive. The amount is inflation-compounded from the
// first simulated year.
type SalaryPlan struct {
	ID           string          `yaml:"id" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annualAmount"`
	Currency     Currency        `yaml:"currency" json:"currency"`
	StartAge     int             `yaml:"start_age" json:"startAge"`
	EndAge       int             `yaml:"end_age" json:"endAge"`
}

// ActiveAt reports whether the plan contributes income at the given age.
func (p *SalaryPlan) ActiveAt(age int) bool {
	return age >= p.StartAge && age <= p.EndAge
}

// PensionPlan mirrors SalaryPlan; it is kept as its own type because the
// optimizer searches only over salary plans.
type PensionPlan struct {
	ID           string          `yaml:"id" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annualAmount"`
	Currency     Currency        `yaml:"currency" json:"currency"`
	StartAge     int             `yaml:"start_age" json:"startAge"`
	EndAge       int             `yaml:"end_age" json:"endAge"`
}

// ActiveAt reports whether the plan contributes income at the given age.
func (p *PensionPlan) ActiveAt(age int) bool {
	return age >= p.StartAge && age <= p.EndAge
}

// SpecialExpense is a one-time outflow that fires when the simulated age
// equals TargetAge.
type SpecialExpense struct {
	ID        string          `yaml:"id" json:"id"`
	Name      string          `yaml:"name" json:"name"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	TargetAge int             `yaml:"target_age" json:"targetAge"`
}

// SpecialIncome is a one-time inflow that fires when the simulated age
// equals TargetAge.
type SpecialIncome struct {
	ID        string          `yaml:"id" json:"id"`
	Name      string          `yaml:"name" json:"name"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	TargetAge int             `yaml:"target_age" json:"targetAge"`
}

// ExpenseSegment defines monthly living expenses for ages in
// [StartAge, EndAge] inclusive. Segments are expected to be contiguous;
// an age covered by no segment yields zero monthly expense.
type ExpenseSegment struct {
	ID              string          `yaml:"id" json:"id"`
	StartAge        int             `yaml:"start_age" json:"startAge"`
	EndAge          int             `yaml:"end_age" json:"endAge"`
	MonthlyExpenses decimal.Decimal `yaml:"monthly_expenses" json:"monthlyExpenses"`
}

// FireCalculationInput is the complete input document for one projection.
// All monetary amounts are plain numbers in the caller's unit convention;
// the engine only requires internal consistency.
type FireCalculationInput struct {
	CurrentAge      int              `yaml:"current_age" json:"currentAge"`
	AssetHoldings   []AssetHolding   `yaml:"asset_holdings" json:"assetHoldings"`
	Loans           []Loan           `yaml:"loans" json:"loans"`
	PensionPlans    []PensionPlan    `yaml:"pension_plans" json:"pensionPlans"`
	SalaryPlans     []SalaryPlan     `yaml:"salary_plans" json:"salaryPlans"`
	SpecialExpenses []SpecialExpense `yaml:"special_expenses" json:"specialExpenses"`
	SpecialIncomes  []SpecialIncome  `yaml:"special_incomes" json:"specialIncomes"`
	ExpenseSegments []ExpenseSegment `yaml:"expense_segments" json:"expenseSegments"`
	InflationRate   decimal.Decimal  `yaml:"inflation_rate" json:"inflationRate"` // percent per year
	LifeExpectancy  int              `yaml:"life_expectancy" json:"lifeExpectancy"`
	ExchangeRate    *decimal.Decimal `yaml:"exchange_rate,omitempty" json:"exchangeRate,omitempty"` // USD -> JPY
}

// MonthlyExpensesAt returns the monthly living expense for an age, or zero
// when no segment covers it. The first matching segment wins.
func (in *FireCalculationInput) MonthlyExpensesAt(age int) decimal.Decimal {
	for i := range in.ExpenseSegments {
		seg := &in.ExpenseSegments[i]
		if age >= seg.StartAge && age <= seg.EndAge {
			return seg.MonthlyExpenses
		}
	}
	return decimal.Zero
}

// AnnualExpensesAt returns twelve months of living expenses for an age,
// before inflation adjustment.
func (in *FireCalculationInput) AnnualExpensesAt(age int) decimal.Decimal {
	return in.MonthlyExpensesAt(age).Mul(decimal.NewFromInt(12))
}

// ProjectionYears is the number of simulated years, inclusive of both the
// current age and the life-expectancy age.
func (in *FireCalculationInput) ProjectionYears() int {
	years := in.LifeExpectancy - in.CurrentAge + 1
	if years < 0 {
		return 0
	}
	return years
}

// DeepCopy returns an independent copy of the input. The optimizer mutates
// salary end-ages on copies so concurrent runs never share slices.
func (in *FireCalculationInput) DeepCopy() *FireCalculationInput {
	out := *in
	out.AssetHoldings = append([]AssetHolding(nil), in.AssetHoldings...)
	out.Loans = append([]Loan(nil), in.Loans...)
	out.PensionPlans = append([]PensionPlan(nil), in.PensionPlans...)
	out.SalaryPlans = append([]SalaryPlan(nil), in.SalaryPlans...)
	out.SpecialExpenses = append([]SpecialExpense(nil), in.SpecialExpenses...)
	out.SpecialIncomes = append([]SpecialIncome(nil), in.SpecialIncomes...)
	out.ExpenseSegments = append([]ExpenseSegment(nil), in.ExpenseSegments...)
	if in.ExchangeRate != nil {
		rate := *in.ExchangeRate
		out.ExchangeRate = &rate
	}
	for i := range out.AssetHoldings {
		if in.AssetHoldings[i].ExpectedReturn != nil {
			er := *in.AssetHoldings[i].ExpectedReturn
			out.AssetHoldings[i].ExpectedReturn = &er
		}
	}
	for i := range out.Loans {
		if in.Loans[i].InterestRate != nil {
			ir := *in.Loans[i].InterestRate
			out.Loans[i].InterestRate = &ir
		}
	}
	return &out
}

// MonteCarloInput adds the stochastic settings to a calculation input.
type MonteCarloInput struct {
	FireCalculationInput `yaml:",inline" json:",inline"`

	Simulations           int             `yaml:"simulations" json:"simulations"`                       // clamped to [100, 10000]
	ReturnVolatility      decimal.Decimal `yaml:"return_volatility" json:"returnVolatility"`           // percent, clamped to [0, 50]
	InflationVolatility   decimal.Decimal `yaml:"inflation_volatility" json:"inflationVolatility"`     // percent, clamped to [0, 10]
	SequenceOfReturnsRisk bool            `yaml:"sequence_of_returns_risk" json:"sequenceOfReturnsRisk"`
	Seed                  int64           `yaml:"seed,omitempty" json:"seed,omitempty"`
}
