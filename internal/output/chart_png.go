package output

import (
	"fmt"
	"strconv"

	"github.com/vicanso/go-charts/v2"
)

// ChartFormatter renders the asset trajectory as a PNG line chart. With Monte
// Carlo bands present it draws the p10/p50/p90 trajectories alongside the
// deterministic one.
type ChartFormatter struct{}

func (cf ChartFormatter) Name() string { return "chart" }

func (cf ChartFormatter) Extension() string { return "png" }

func (cf ChartFormatter) Format(report *Report) ([]byte, error) {
	result := report.Result
	if len(result.Projections) == 0 {
		return nil, fmt.Errorf("no projection rows to chart")
	}

	years := len(result.Projections)
	xLabels := make([]string, 0, years)
	deterministic := make([]float64, 0, years)
	for _, p := range result.Projections {
		xLabels = append(xLabels, strconv.Itoa(p.Age))
		deterministic = append(deterministic, p.TotalAssets.InexactFloat64())
	}

	series := [][]float64{deterministic}
	legend := []string{"Projected"}
	for _, pct := range []int{10, 50, 90} {
		band := report.band(pct)
		if band == nil {
			continue
		}
		values := make([]float64, years)
		for i := 0; i < years; i++ {
			// Depleted trajectories stay flat at zero once they end.
			if i < len(band.Projections) {
				values[i] = band.Projections[i].Assets.InexactFloat64()
			}
		}
		series = append(series, values)
		legend = append(legend, fmt.Sprintf("p%d", pct))
	}

	minVal, maxVal := deterministic[0], deterministic[0]
	for _, s := range series {
		for _, v := range s {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	title := "FIRE asset projection"
	if result.IsFireAchievable {
		title = fmt.Sprintf("FIRE asset projection (age %d)", result.FireAge)
	}

	splitNum := 6
	if years <= 30 {
		splitNum = years / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	p, err := charts.LineRender(
		series,
		charts.TitleTextOptionFunc(title),
		charts.LegendLabelsOptionFunc(legend),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
