package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gridnet/pkg/grid"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printStats prints partition statistics on a single line, ending with
// whether the artifact came from the cache.
func printStats(nodeCount, networkCount int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d active nodes", nodeCount),
		fmt.Sprintf("%d networks", networkCount),
	}
	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}

	line := "  "
	for _, part := range parts {
		line += StyleDim.Render(part) + StyleDim.Render(" · ")
	}
	fmt.Println(line + status)
}

// =============================================================================
// Network Tables
// =============================================================================

var styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// networkTable renders a partition with one row per network. Networks in
// changed are drawn in the highlight color.
func networkTable(snap grid.Snapshot, changed map[grid.NetworkID]bool) string {
	rows := make([][]string, 0, len(snap.Networks))
	for _, v := range snap.Networks {
		members := make([]string, len(v.Members))
		for i, id := range v.Members {
			members[i] = string(id)
		}
		rows = append(rows, []string{v.ID.String(), string(v.Kind), strconv.Itoa(len(v.Members)), strings.Join(members, " ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Network", "Kind", "Size", "Members").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(snap.Networks) {
				return base
			}
			if changed[snap.Networks[row].ID] {
				return base.Foreground(colorCyan).Bold(true)
			}
			if col == 2 {
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// changedNetworks returns the networks of after that are new or changed size
// since before.
func changedNetworks(before, after grid.Snapshot) map[grid.NetworkID]bool {
	prev := make(map[grid.NetworkID]int, len(before.Networks))
	for _, v := range before.Networks {
		prev[v.ID] = len(v.Members)
	}
	changed := make(map[grid.NetworkID]bool)
	for _, v := range after.Networks {
		if n, ok := prev[v.ID]; !ok || n != len(v.Members) {
			changed[v.ID] = true
		}
	}
	return changed
}
