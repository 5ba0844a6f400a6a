package output

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	result := report.Result

	fmt.Fprintln(&buf, "FIRE PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")

	for _, w := range report.Warnings {
		fmt.Fprintf(&buf, "warning: %s\n", w)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(&buf)
	}

	if result.IsFireAchievable {
		fmt.Fprintf(&buf, "FIRE achievable at age %d (%d years from now)\n", result.FireAge, result.YearsToFire)
	} else if result.YearsToFire < 0 {
		fmt.Fprintln(&buf, "FIRE is not reachable at any retirement age up to 60")
	} else {
		fmt.Fprintln(&buf, "FIRE is not yet funded")
	}
	fmt.Fprintf(&buf, "Required assets:  %s\n", FormatCurrency(result.RequiredAssets))
	fmt.Fprintf(&buf, "Projected assets: %s\n", FormatCurrency(result.ProjectedAssets))
	if result.MonthlyShortfall.IsPositive() {
		fmt.Fprintf(&buf, "Monthly shortfall: %s\n", FormatCurrency(result.MonthlyShortfall))
	}

	if len(result.Projections) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Age   TotalAssets        Expenses (adj.)    FIRE")
		for _, p := range result.Projections {
			mark := ""
			if p.FireAchieved {
				mark = "*"
			}
			fmt.Fprintf(&buf, "%-5d %-18s %-18s %s\n",
				p.Age, FormatCurrency(p.TotalAssets), FormatCurrency(p.InflationAdjustedExpenses), mark)
		}
	}

	if len(report.Bands) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "MONTE CARLO")
		fmt.Fprintln(&buf, "--------------------------------")
		fmt.Fprintf(&buf, "Success probability: %s\n",
			FormatPercentage(report.Bands[0].SuccessProbability.Mul(decimal.NewFromInt(100))))
		for _, band := range report.Bands {
			if len(band.Projections) == 0 {
				continue
			}
			last := band.Projections[len(band.Projections)-1]
			fmt.Fprintf(&buf, "p%-3d final assets at age %d: %s\n",
				band.Percentile, last.Age, FormatCurrency(last.Assets))
		}
	}

	return buf.Bytes(), nil
}
