package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chartSeries is a single line in the asset chart.
type chartSeries struct {
	name   string
	points []float64
	color  lipgloss.Color
}

// assetChart plots asset trajectories against age on a character grid.
type assetChart struct {
	series []chartSeries
	labels []string // X-axis labels (ages)
	width  int
	height int
}

func newAssetChart(width, height int) *assetChart {
	return &assetChart{width: width, height: height}
}

func (c *assetChart) addSeries(name string, points []float64, color lipgloss.Color) {
	c.series = append(c.series, chartSeries{name: name, points: points, color: color})
}

func (c *assetChart) withLabels(labels []string) {
	c.labels = labels
}

func (c *assetChart) render() string {
	if len(c.series) == 0 {
		return SubtitleStyle.Render("No data to display")
	}

	minVal, maxVal := c.bounds()
	var out strings.Builder
	out.WriteString(c.renderGrid(minVal, maxVal))
	if len(c.series) > 1 {
		out.WriteString("\n")
		out.WriteString(c.renderLegend())
	}
	return out.String()
}

func (c *assetChart) bounds() (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, s := range c.series {
		for _, p := range s.points {
			if p < minVal {
				minVal = p
			}
			if p > maxVal {
				maxVal = p
			}
		}
	}
	padding := (maxVal - minVal) * 0.1
	if padding == 0 {
		padding = math.Abs(maxVal)*0.1 + 1
	}
	return minVal - padding, maxVal + padding
}

func (c *assetChart) renderGrid(minVal, maxVal float64) string {
	yAxisWidth := 10
	chartWidth := c.width - yAxisWidth
	if chartWidth < 10 {
		chartWidth = 10
	}

	grid := make([][]rune, c.height)
	for i := range grid {
		grid[i] = make([]rune, chartWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for si, s := range c.series {
		if len(s.points) == 0 {
			continue
		}
		char := seriesChar(si)
		prevX, prevY := -1, -1
		for i, p := range s.points {
			x := 0
			if len(s.points) > 1 {
				x = int(float64(i) / float64(len(s.points)-1) * float64(chartWidth-1))
			}
			y := c.height - 1 - int((p-minVal)/(maxVal-minVal)*float64(c.height-1))
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, char)
			} else if x >= 0 && x < chartWidth && y >= 0 && y < c.height {
				grid[y][x] = char
			}
			prevX, prevY = x, y
		}
	}

	var out strings.Builder
	valueRange := maxVal - minVal
	axisStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for i, row := range grid {
		yValue := maxVal - (float64(i)/float64(c.height-1))*valueRange
		out.WriteString(axisStyle.Render(formatAxisValue(yValue)))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}

	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth))
	out.WriteString("\n")

	if len(c.labels) > 0 {
		out.WriteString(c.renderXAxisLabels(yAxisWidth, chartWidth))
	}
	return out.String()
}

func (c *assetChart) renderXAxisLabels(yAxisWidth, chartWidth int) string {
	maxLabels := 5
	step := len(c.labels) / maxLabels
	if step == 0 {
		step = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	var out strings.Builder
	out.WriteString(strings.Repeat(" ", yAxisWidth+3))
	for i := 0; i < len(c.labels); i += step {
		if i > 0 {
			spacing := chartWidth/maxLabels - len(c.labels[i-step])
			if spacing < 1 {
				spacing = 1
			}
			out.WriteString(strings.Repeat(" ", spacing))
		}
		out.WriteString(labelStyle.Render(c.labels[i]))
	}
	return out.String()
}

func (c *assetChart) renderLegend() string {
	var items []string
	for i, s := range c.series {
		symbol := lipgloss.NewStyle().Foreground(s.color).Render(string(seriesChar(i)))
		name := lipgloss.NewStyle().Foreground(ColorForeground).Render(s.name)
		items = append(items, fmt.Sprintf("%s %s", symbol, name))
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Join(items, "  "))
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine connects two grid points using Bresenham's algorithm. Occupied
// cells keep their earlier series marker.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := intAbs(x1 - x0)
	dy := intAbs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy
	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) {
			if grid[y][x] == ' ' {
				grid[y][x] = char
			}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// formatAxisValue renders a yen amount compactly for the Y-axis.
func formatAxisValue(value float64) string {
	switch {
	case math.Abs(value) >= 100_000_000:
		return fmt.Sprintf("¥%.1f億", value/100_000_000)
	case math.Abs(value) >= 10_000:
		return fmt.Sprintf("¥%.0f万", value/10_000)
	default:
		return fmt.Sprintf("¥%.0f", value)
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
