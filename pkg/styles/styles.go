// Package styles renders colorized console diagnostics for the engine's
// control-plane processes (coordinator, producer, consumer), the same
// palette-by-keyword convention the coordinator used for its own
// startup/connection logging.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var defaultStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#7D56F4"))

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F45E6E"))

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6ef4a1ff"))

var infoStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6EC4F4"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F4C95E"))

func render(style, text string) string {
	switch style {
	case "error":
		return errorStyle.Render(text)
	case "success":
		return successStyle.Render(text)
	case "info":
		return infoStyle.Render(text)
	case "warn":
		return warnStyle.Render(text)
	default:
		return defaultStyle.Render(text)
	}
}

// PrintFS prints a Printf-formatted line rendered in the named style
// ("error", "success", "info", "warn", or anything else for default).
func PrintFS(style string, format string, a ...interface{}) {
	fmt.Println(render(style, fmt.Sprintf(format, a...)))
}

// SprintfS is PrintFS without the trailing print, for embedding a
// styled fragment in a larger message.
func SprintfS(style string, format string, a ...interface{}) string {
	return render(style, fmt.Sprintf(format, a...))
}
