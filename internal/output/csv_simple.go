package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/ktanaka/fireplan/internal/domain"
)

// CSVSummarizer implements the simple CSV output (one row per projected year).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Year", "Age", "TotalAssets", "DisplayExpenses", "InflationAdjustedExpenses", "FireAchieved"}
	withBands := len(report.Bands) > 0
	if withBands {
		header = append(header, "P10Assets", "P50Assets", "P90Assets")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	p10 := report.band(10)
	p50 := report.band(50)
	p90 := report.band(90)

	for i, p := range report.Result.Projections {
		row := []string{
			strconv.Itoa(p.Year),
			strconv.Itoa(p.Age),
			p.TotalAssets.StringFixed(0),
			p.DisplayExpenses.StringFixed(0),
			p.InflationAdjustedExpenses.StringFixed(0),
			strconv.FormatBool(p.FireAchieved),
		}
		if withBands {
			row = append(row, bandValueAt(p10, i), bandValueAt(p50, i), bandValueAt(p90, i))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// bandValueAt is empty past the band's depletion point rather than zero, so a
// spreadsheet can tell "ran out" apart from "exactly zero".
func bandValueAt(band *domain.PercentileBand, i int) string {
	if band == nil || i >= len(band.Projections) {
		return ""
	}
	return band.Projections[i].Assets.StringFixed(0)
}
