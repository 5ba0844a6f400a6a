package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/domain"
)

const monthsPerYear = 12

// AmortizeLoanYear simulates twelve monthly payments against a loan and
// returns the year's total payment and the new remaining balance. Each month
// the balance accrues one month of interest, then the payment is applied,
// capped at the remaining balance. Months after the balance reaches zero
// contribute nothing. A zero interest rate degenerates to plain subtraction.
//
// This simulates the schedule rather than solving it analytically; the loan
// payoff month therefore falls out of the loop, not out of a formula.
func AmortizeLoanYear(loan *domain.Loan) (yearlyPayment, newBalance decimal.Decimal) {
	monthlyRate := fractionFromPercent(loan.InterestRateOrDefault()).Div(decimal.NewFromInt(monthsPerYear))
	growth := decimal.NewFromInt(1).Add(monthlyRate)

	balance := loan.Balance
	total := decimal.Zero

	for month := 0; month < monthsPerYear; month++ {
		if balance.LessThanOrEqual(decimal.Zero) {
			balance = decimal.Zero
			break
		}
		balance = balance.Mul(growth)
		payment := loan.MonthlyPayment
		if payment.GreaterThan(balance) {
			payment = balance
		}
		balance = balance.Sub(payment)
		total = total.Add(payment)
	}

	return total, balance
}
