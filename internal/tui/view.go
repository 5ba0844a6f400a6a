package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/output"
)

func newTableViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	return vp
}

// View renders the current state (required by tea.Model interface)
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("fireplan"))
	b.WriteString(SubtitleStyle.Render("  " + m.planPath))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(m.statusBar())
		return AppStyle.Render(b.String())
	}

	if m.calculating || m.result == nil {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(SubtitleStyle.Render(m.statusNote + "..."))
		b.WriteString("\n")
		return AppStyle.Render(b.String())
	}

	b.WriteString(m.summaryLine())
	b.WriteString("\n")
	for _, w := range m.warnings {
		b.WriteString(ErrorStyle.Render("! "))
		b.WriteString(SubtitleStyle.Render(w))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.chartView())
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	return AppStyle.Render(b.String())
}

func (m Model) summaryLine() string {
	r := m.result
	var parts []string

	if r.IsFireAchievable {
		parts = append(parts, MetricLabelStyle.Render("FIRE age ")+
			MetricPositiveStyle.Render(strconv.Itoa(r.FireAge))+
			MetricLabelStyle.Render(fmt.Sprintf(" (in %d years)", r.YearsToFire)))
	} else {
		parts = append(parts, MetricNegativeStyle.Render("FIRE not reachable"))
	}

	parts = append(parts, MetricLabelStyle.Render("required ")+
		MetricValueStyle.Render(output.FormatCurrency(r.RequiredAssets)))
	parts = append(parts, MetricLabelStyle.Render("current ")+
		MetricValueStyle.Render(output.FormatCurrency(r.ProjectedAssets)))
	if r.MonthlyShortfall.IsPositive() {
		parts = append(parts, MetricLabelStyle.Render("shortfall ")+
			MetricNegativeStyle.Render(output.FormatCurrency(r.MonthlyShortfall)+"/mo"))
	}
	if len(m.bands) > 0 {
		pct := m.bands[0].SuccessProbability.Mul(decimal.NewFromInt(100))
		style := MetricPositiveStyle
		if pct.LessThan(decimal.NewFromInt(70)) {
			style = MetricNegativeStyle
		}
		parts = append(parts, MetricLabelStyle.Render("success ")+
			style.Render(output.FormatPercentage(pct)))
	}

	return strings.Join(parts, MetricLabelStyle.Render("  │  "))
}

func (m Model) chartView() string {
	chartWidth := m.width - 8
	if chartWidth < 40 {
		chartWidth = 40
	}
	chart := newAssetChart(chartWidth, 12)

	points := make([]float64, 0, len(m.result.Projections))
	labels := make([]string, 0, len(m.result.Projections))
	for _, p := range m.result.Projections {
		points = append(points, p.TotalAssets.InexactFloat64())
		labels = append(labels, strconv.Itoa(p.Age))
	}
	chart.addSeries("Projected", points, ColorChartProjected)
	chart.withLabels(labels)

	for _, band := range m.bands {
		var color = ColorChartMedian
		switch band.Percentile {
		case 10:
			color = ColorChartLow
		case 90:
			color = ColorChartHigh
		case 25, 75:
			continue // keep the chart legible
		}
		values := make([]float64, len(points))
		for i := range values {
			if i < len(band.Projections) {
				values[i] = band.Projections[i].Assets.InexactFloat64()
			}
		}
		chart.addSeries(fmt.Sprintf("p%d", band.Percentile), values, color)
	}

	return chart.render()
}

func (m Model) projectionTable() string {
	var b strings.Builder
	header := fmt.Sprintf("%-5s %-16s %-16s %s", "Age", "Assets", "Expenses", "FIRE")
	b.WriteString(MetricLabelStyle.Render(header))
	b.WriteString("\n")
	for _, p := range m.result.Projections {
		mark := ""
		if p.FireAchieved {
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("%-5d %-16s %-16s %s\n",
			p.Age,
			output.FormatCurrency(p.TotalAssets),
			output.FormatCurrency(p.InflationAdjustedExpenses),
			MetricPositiveStyle.Render(mark)))
	}
	return b.String()
}

func (m Model) statusBar() string {
	keys := []struct{ key, desc string }{
		{"r", "recalculate"},
		{"m", "monte carlo"},
		{"↑/↓", "scroll"},
		{"q", "quit"},
	}
	var parts []string
	for _, k := range keys {
		parts = append(parts, StatusKeyStyle.Render(k.key)+StatusBarStyle.Render(" "+k.desc))
	}
	return StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}
