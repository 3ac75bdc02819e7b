package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/koyoi/falls/internal/core"
)

// Shared styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// arrows are indexed by octant, starting at +X and turning clockwise on
// screen (y grows downward).
var arrows = []string{"→", "↘", "↓", "↙", "←", "↖", "↑", "↗"}

// headingDeg returns the screen heading of v in [0, 360).
func headingDeg(v core.Vec2) float64 {
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// arrow returns a glyph for the direction of v, or "·" for the zero vector.
func arrow(v core.Vec2) string {
	if v.IsZero() {
		return "·"
	}
	octant := int(math.Round(headingDeg(v)/45)) % len(arrows)
	return arrows[octant]
}

// swatches renders each color as a two-cell block followed by its hex code.
func swatches(colors []core.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
		parts[i] = block + " " + dimStyle.Render(c.Hex())
	}
	return strings.Join(parts, "  ")
}

// field renders a label/value row with a fixed label column.
func field(label string, value any) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + fmt.Sprint(value)
}

// vec formats a vector with one decimal.
func vec(v core.Vec2) string {
	return fmt.Sprintf("(%.1f, %.1f)", v.X, v.Y)
}

// centerText pads text to center it in width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
