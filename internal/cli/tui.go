package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridnet/pkg/grid"
	"github.com/matzehuels/gridnet/pkg/scenario"
)

var (
	stepperDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	stepperStepStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	stepperBarStyle  = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// StepperModel - Interactive run replay
// =============================================================================

// StepperModel is the bubbletea model that replays a finished run one step
// at a time. Position 0 is the initial partition; position i shows the
// partition after step i.
type StepperModel struct {
	Result *scenario.Result
	Pos    int
	Width  int
}

// NewStepperModel creates a stepper positioned on the initial partition.
func NewStepperModel(res *scenario.Result) StepperModel {
	return StepperModel{Result: res, Width: 60}
}

// runStepper shows res until the user quits.
func runStepper(res *scenario.Result) error {
	_, err := tea.NewProgram(NewStepperModel(res)).Run()
	return err
}

func (m StepperModel) Init() tea.Cmd {
	return nil
}

func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.Result.Steps)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.Pos > 0 {
				m.Pos--
			}
		case "right", "l", "down", "j", " ", "enter":
			if m.Pos < last {
				m.Pos++
			}
		case "home", "g":
			m.Pos = 0
		case "end", "G":
			m.Pos = last
		case "f":
			if failed, ok := m.Result.Failed(); ok {
				m.Pos = failed.Index
			}
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width-4, 20)
	}
	return m, nil
}

// snapshots returns the partitions before and at the current position.
func (m StepperModel) snapshots() (before, at grid.Snapshot) {
	if m.Pos == 0 {
		return m.Result.Initial, m.Result.Initial
	}
	before = m.Result.Initial
	if m.Pos > 1 {
		before = m.Result.Steps[m.Pos-2].Snapshot
	}
	return before, m.Result.Steps[m.Pos-1].Snapshot
}

func (m StepperModel) View() string {
	var b strings.Builder
	last := len(m.Result.Steps)

	b.WriteString(StyleTitle.Render(m.Result.Scenario))
	b.WriteString("\n")
	b.WriteString(stepperDimStyle.Render("←/→ step  g/G first/last  f failure  q quit"))
	b.WriteString("\n\n")

	filled := 0
	if last > 0 {
		filled = m.Width * m.Pos / last
	}
	b.WriteString(stepperBarStyle.Render(strings.Repeat("━", filled)))
	b.WriteString(stepperDimStyle.Render(strings.Repeat("─", m.Width-filled)))
	b.WriteString(stepperDimStyle.Render(fmt.Sprintf(" %d/%d", m.Pos, last)))
	b.WriteString("\n")

	before, at := m.snapshots()
	if m.Pos == 0 {
		b.WriteString(stepperStepStyle.Render("initial partition"))
		b.WriteString("\n")
		b.WriteString(networkTable(at, nil))
		b.WriteString("\n")
		return b.String()
	}

	step := m.Result.Steps[m.Pos-1]
	b.WriteString(stepperStepStyle.Render(step.Step.String()))
	if step.Step.Comment != "" {
		b.WriteString("  " + stepperDimStyle.Render("# "+step.Step.Comment))
	}
	b.WriteString("\n")
	if step.Err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + StyleWarning.Render(step.Error))
		b.WriteString("\n")
	}
	b.WriteString(networkTable(at, changedNetworks(before, at)))
	b.WriteString("\n")
	return b.String()
}
