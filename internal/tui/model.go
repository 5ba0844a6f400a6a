package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ktanaka/fireplan/internal/calculation"
	"github.com/ktanaka/fireplan/internal/config"
	"github.com/ktanaka/fireplan/internal/domain"
)

// Model represents the entire application state
type Model struct {
	planPath string

	// Terminal dimensions
	width  int
	height int

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool

	input    *domain.MonteCarloInput
	warnings []string

	result *domain.FireCalculationResult
	bands  []domain.PercentileBand

	calculating bool
	statusNote  string

	err error
}

// NewModel creates a new application model
func NewModel(planPath string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipglossSpinnerStyle
	return Model{
		planPath:    planPath,
		spinner:     sp,
		width:       80,
		height:      24,
		calculating: true,
		statusNote:  "loading plan",
	}
}

var lipglossSpinnerStyle = TitleStyle

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadPlanCmd(m.planPath))
}

// planLoadedMsg carries a parsed plan into the update loop.
type planLoadedMsg struct {
	input    *domain.MonteCarloInput
	warnings []string
}

// calcDoneMsg carries the deterministic result.
type calcDoneMsg struct {
	result *domain.FireCalculationResult
	err    error
}

// monteCarloDoneMsg carries the stochastic bands.
type monteCarloDoneMsg struct {
	bands []domain.PercentileBand
	err   error
}

// loadPlanCmd returns a command that loads and validates the plan file.
func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		input, err := parser.LoadFromFile(path)
		if err != nil {
			return calcDoneMsg{err: err}
		}
		return planLoadedMsg{
			input:    input,
			warnings: config.ExpenseCoverageGaps(&input.FireCalculationInput),
		}
	}
}

// calculateCmd returns a command that runs the deterministic FIRE search.
func calculateCmd(input *domain.MonteCarloInput) tea.Cmd {
	return func() tea.Msg {
		result, err := calculation.NewFireCalculator().Calculate(context.Background(), &input.FireCalculationInput)
		return calcDoneMsg{result: result, err: err}
	}
}

// monteCarloCmd returns a command that runs the stochastic analysis.
func monteCarloCmd(input *domain.MonteCarloInput) tea.Cmd {
	return func() tea.Msg {
		bands, err := calculation.NewMonteCarloEngine().Run(context.Background(), input)
		return monteCarloDoneMsg{bands: bands, err: err}
	}
}

// Run starts the interactive program.
func Run(planPath string) error {
	p := tea.NewProgram(NewModel(planPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
