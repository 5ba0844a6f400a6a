package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/fireplan/internal/domain"
)

func sampleReport(withBands bool) *Report {
	result := &domain.FireCalculationResult{
		YearsToFire:      12,
		FireAge:          42,
		RequiredAssets:   decimal.NewFromInt(98_800_000),
		ProjectedAssets:  decimal.NewFromInt(20_000_000),
		IsFireAchievable: true,
		MonthlyShortfall: decimal.NewFromInt(550_000),
		Projections: []domain.FireProjection{
			{Year: 0, Age: 30, TotalAssets: decimal.NewFromInt(20_000_000), DisplayExpenses: decimal.NewFromInt(2_400_000), InflationAdjustedExpenses: decimal.NewFromInt(2_400_000)},
			{Year: 1, Age: 31, TotalAssets: decimal.NewFromInt(28_000_000), DisplayExpenses: decimal.NewFromInt(2_400_000), InflationAdjustedExpenses: decimal.NewFromInt(2_448_000)},
			{Year: 2, Age: 32, TotalAssets: decimal.NewFromInt(120_000_000), DisplayExpenses: decimal.NewFromInt(2_400_000), InflationAdjustedExpenses: decimal.NewFromInt(2_496_960), FireAchieved: true},
		},
	}

	var bands []domain.PercentileBand
	if withBands {
		for _, pct := range []int{10, 25, 50, 75, 90} {
			rows := []domain.TrialYear{
				{Year: 0, Age: 30, Assets: decimal.NewFromInt(int64(pct) * 1_000_000)},
			}
			// The p10 band depletes after its first year.
			if pct != 10 {
				rows = append(rows,
					domain.TrialYear{Year: 1, Age: 31, Assets: decimal.NewFromInt(int64(pct) * 1_100_000)},
					domain.TrialYear{Year: 2, Age: 32, Assets: decimal.NewFromInt(int64(pct) * 1_200_000)},
				)
			}
			bands = append(bands, domain.PercentileBand{
				Percentile:         pct,
				Projections:        rows,
				SuccessProbability: decimal.NewFromFloat(0.84),
			})
		}
	}

	return NewReport(result, bands, []string{"no expense segment covers ages 85-90"})
}

func TestGetFormatterByName(t *testing.T) {
	assert.Equal(t, "console", GetFormatterByName("console").Name())
	assert.Equal(t, "console", GetFormatterByName("table").Name())
	assert.Equal(t, "json", GetFormatterByName("JSON-Pretty").Name())
	assert.Equal(t, "chart", GetFormatterByName("png").Name())
	assert.Nil(t, GetFormatterByName("spreadsheet"))
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"chart", "console", "csv", "json"}, AvailableFormatterNames())
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleReport(true))
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "FIRE achievable at age 42 (12 years from now)")
	assert.Contains(t, text, "Required assets:  ¥98,800,000")
	assert.Contains(t, text, "Monthly shortfall: ¥550,000")
	assert.Contains(t, text, "warning: no expense segment covers ages 85-90")
	assert.Contains(t, text, "Success probability: 84.0%")
	assert.Contains(t, text, "p50")
}

func TestConsoleFormatter_Unreachable(t *testing.T) {
	report := sampleReport(false)
	report.Result.IsFireAchievable = false
	report.Result.YearsToFire = -1
	report.Result.FireAge = -1

	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "not reachable at any retirement age up to 60")
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(sampleReport(true))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Year", "Age", "TotalAssets", "DisplayExpenses", "InflationAdjustedExpenses", "FireAchieved", "P10Assets", "P50Assets", "P90Assets"}, records[0])
	assert.Equal(t, "30", records[1][1])
	assert.Equal(t, "20000000", records[1][2])
	assert.Equal(t, "true", records[3][5])

	// p10 depleted after year 0: later cells stay empty, not zero.
	assert.Equal(t, "10000000", records[1][6])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "55000000", records[2][7])
}

func TestCSVSummarizer_NoBands(t *testing.T) {
	out, err := CSVSummarizer{}.Format(sampleReport(false))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records[0], 6)
}

func TestJSONFormatter_RoundTrips(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleReport(true))
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 42, decoded.Result.FireAge)
	assert.Len(t, decoded.Bands, 5)
	assert.True(t, strings.HasPrefix(string(out), "{\n"), "expected indented JSON")
}

func TestChartFormatter_EmptyProjections(t *testing.T) {
	report := NewReport(&domain.FireCalculationResult{}, nil, nil)
	_, err := ChartFormatter{}.Format(report)
	assert.ErrorContains(t, err, "no projection rows")
}

func TestChartFormatter_RendersPNG(t *testing.T) {
	out, err := ChartFormatter{}.Format(sampleReport(true))
	require.NoError(t, err)
	require.NotEmpty(t, out)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, out[:4])
}
