package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ktanaka/fireplan/internal/domain"
)

// InputParser handles parsing of input plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a household plan from a YAML file. The returned input
// always carries the Monte Carlo settings; deterministic callers simply
// ignore them.
func (ip *InputParser) LoadFromFile(filename string) (*domain.MonteCarloInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input domain.MonteCarloInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInput(&input); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &input, nil
}

// ValidateInput validates the loaded plan
func (ip *InputParser) ValidateInput(input *domain.MonteCarloInput) error {
	if input.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if input.LifeExpectancy < input.CurrentAge {
		return fmt.Errorf("life expectancy cannot be before current age")
	}
	if input.InflationRate.LessThan(decimal.NewFromInt(-10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}
	if input.ExchangeRate != nil && !input.ExchangeRate.IsPositive() {
		return fmt.Errorf("exchange rate must be positive")
	}

	for i, h := range input.AssetHoldings {
		if err := ip.validateHolding(&h); err != nil {
			return fmt.Errorf("asset holding %d (%s) validation failed: %w", i, holdingLabel(&h), err)
		}
	}
	for i, l := range input.Loans {
		if err := ip.validateLoan(&l); err != nil {
			return fmt.Errorf("loan %d (%s) validation failed: %w", i, l.Name, err)
		}
	}
	for i, p := range input.SalaryPlans {
		if err := ip.validateStream(p.AnnualAmount, p.Currency, p.StartAge, p.EndAge); err != nil {
			return fmt.Errorf("salary plan %d (%s) validation failed: %w", i, p.Name, err)
		}
	}
	for i, p := range input.PensionPlans {
		if err := ip.validateStream(p.AnnualAmount, p.Currency, p.StartAge, p.EndAge); err != nil {
			return fmt.Errorf("pension plan %d (%s) validation failed: %w", i, p.Name, err)
		}
	}
	for i, e := range input.SpecialExpenses {
		if e.Amount.IsNegative() {
			return fmt.Errorf("special expense %d (%s) validation failed: amount cannot be negative", i, e.Name)
		}
	}
	for i, e := range input.SpecialIncomes {
		if e.Amount.IsNegative() {
			return fmt.Errorf("special income %d (%s) validation failed: amount cannot be negative", i, e.Name)
		}
	}
	for i, seg := range input.ExpenseSegments {
		if err := ip.validateSegment(&seg); err != nil {
			return fmt.Errorf("expense segment %d validation failed: %w", i, err)
		}
	}

	if input.Simulations < 0 {
		return fmt.Errorf("simulations cannot be negative")
	}
	if input.ReturnVolatility.IsNegative() {
		return fmt.Errorf("return volatility cannot be negative")
	}
	if input.InflationVolatility.IsNegative() {
		return fmt.Errorf("inflation volatility cannot be negative")
	}

	return nil
}

func (ip *InputParser) validateHolding(h *domain.AssetHolding) error {
	if h.Quantity.IsNegative() {
		return fmt.Errorf("quantity cannot be negative")
	}
	if h.PricePerUnit.IsNegative() {
		return fmt.Errorf("price per unit cannot be negative")
	}
	if err := validateCurrency(h.Currency); err != nil {
		return err
	}
	if h.ExpectedReturn != nil && h.ExpectedReturn.LessThan(decimal.NewFromInt(-100)) {
		return fmt.Errorf("expected return cannot be less than -100%%")
	}
	return nil
}

func (ip *InputParser) validateLoan(l *domain.Loan) error {
	if l.Balance.IsNegative() {
		return fmt.Errorf("balance cannot be negative")
	}
	if l.MonthlyPayment.IsNegative() {
		return fmt.Errorf("monthly payment cannot be negative")
	}
	if l.InterestRate != nil && l.InterestRate.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateStream(amount decimal.Decimal, currency domain.Currency, startAge, endAge int) error {
	if amount.IsNegative() {
		return fmt.Errorf("annual amount cannot be negative")
	}
	if err := validateCurrency(currency); err != nil {
		return err
	}
	if endAge < startAge {
		return fmt.Errorf("end age cannot be before start age")
	}
	return nil
}

func (ip *InputParser) validateSegment(seg *domain.ExpenseSegment) error {
	if seg.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("monthly expenses cannot be negative")
	}
	if seg.EndAge < seg.StartAge {
		return fmt.Errorf("end age cannot be before start age")
	}
	return nil
}

func validateCurrency(c domain.Currency) error {
	switch c {
	case "", domain.CurrencyJPY, domain.CurrencyUSD:
		return nil
	default:
		return fmt.Errorf("unsupported currency %q (use JPY or USD)", c)
	}
}

func holdingLabel(h *domain.AssetHolding) string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// ExpenseCoverageGaps reports the age ranges between current age and life
// expectancy that no expense segment covers. Gaps are not errors; the engine
// treats uncovered ages as zero expense, which is usually a plan mistake
// worth surfacing.
func ExpenseCoverageGaps(input *domain.FireCalculationInput) []string {
	if len(input.ExpenseSegments) == 0 {
		return nil
	}

	var gaps []string
	gapStart := -1
	for age := input.CurrentAge; age <= input.LifeExpectancy; age++ {
		covered := false
		for i := range input.ExpenseSegments {
			seg := &input.ExpenseSegments[i]
			if age >= seg.StartAge && age <= seg.EndAge {
				covered = true
				break
			}
		}
		if !covered && gapStart < 0 {
			gapStart = age
		}
		if covered && gapStart >= 0 {
			gaps = append(gaps, formatGap(gapStart, age-1))
			gapStart = -1
		}
	}
	if gapStart >= 0 {
		gaps = append(gaps, formatGap(gapStart, input.LifeExpectancy))
	}
	return gaps
}

func formatGap(from, to int) string {
	if from == to {
		return fmt.Sprintf("age %d", from)
	}
	return fmt.Sprintf("ages %d-%d", from, to)
}
