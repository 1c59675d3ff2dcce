package format

import (
	"regexp"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors for cell content. ANSI palette indices so they degrade
// sensibly on 16-color terminals and disappear entirely under NO_COLOR.
var (
	colorSuccess = lipgloss.Color("2") // green
	colorError   = lipgloss.Color("1") // red
	colorInfo    = lipgloss.Color("4") // blue
	colorMuted   = lipgloss.Color("8") // gray
	colorBorder  = lipgloss.Color("8")
)

// cellContentType classifies a cell for semantic styling.
type cellContentType int

const (
	contentDefault cellContentType = iota
	contentBoolean
	contentNumber
	contentEmpty
)

var placeholderRegex = regexp.MustCompile(`^(\{\.\.\.}|\[\.\.\.]).*$`)

// detectContentType inspects the rendered cell text.
func detectContentType(value string) cellContentType {
	switch {
	case value == "":
		return contentEmpty
	case placeholderRegex.MatchString(value):
		return contentEmpty
	case value == "true" || value == "false":
		return contentBoolean
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return contentNumber
	}
	return contentDefault
}

// cellStyle returns the style for a cell based on its content.
func cellStyle(value string, base lipgloss.Style) lipgloss.Style {
	switch detectContentType(value) {
	case contentBoolean:
		if value == "true" {
			return base.Foreground(colorSuccess)
		}
		return base.Foreground(colorError)
	case contentNumber:
		return base.Foreground(colorInfo)
	case contentEmpty:
		return base.Foreground(colorMuted)
	default:
		return base
	}
}
