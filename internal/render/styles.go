package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/cgdiag/internal/pretty"
)

var (
	InfoColor   = lipgloss.Color("#4682B4") // Steel blue
	GoodColor   = lipgloss.Color("#228B22") // Forest green
	StringColor = lipgloss.Color("#FFAA44") // Lighter orange
	ErrorColor  = lipgloss.Color("#FF6666") // Lighter red
	TextColor   = lipgloss.Color("#CCCCCC") // Light gray
	MutedColor  = lipgloss.Color("#888888") // Medium gray
)

var (
	LabelStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	PrinterStyle  = lipgloss.NewStyle().Foreground(GoodColor).Bold(true)
	StringStyle   = lipgloss.NewStyle().Foreground(StringColor)
	NullStyle     = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	InvalidStyle  = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	TextStyle     = lipgloss.NewStyle().Foreground(TextColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	SelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#333333")).Bold(true)
)

// SummaryStyle picks the style for a node's value text
func SummaryStyle(n *Node) lipgloss.Style {
	switch n.Kind {
	case KindPrinter:
		return PrinterStyle
	case KindString:
		return StringStyle
	case KindSentinel:
		if n.Summary == pretty.SentinelNull {
			return NullStyle
		}
		return InvalidStyle
	case KindError:
		return InvalidStyle
	case KindStruct:
		return MutedStyle
	default:
		return TextStyle
	}
}
