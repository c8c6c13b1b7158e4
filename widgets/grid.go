package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderPadGrid renders an 8x8 grid of pads, row 0 at the top to
// match the hardware orientation
func RenderPadGrid(grid [8][8][3]uint8) string {
	var lines []string
	for row := 0; row < 8; row++ {
		var line strings.Builder
		for col := 0; col < 8; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			line.WriteString(RenderPad(grid[row][col]))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
