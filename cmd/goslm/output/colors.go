// Package output provides console output formatting and colorization.
package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/willibrandon/goslm/settings"
)

// Color schemes
var (
	ColorSuccess = color.New(color.FgGreen)
	ColorError   = color.New(color.FgRed)
	ColorWarning = color.New(color.FgYellow)
	ColorInfo    = color.New(color.FgCyan)
	ColorDebug   = color.New(color.FgWhite)
	ColorHeader  = color.New(color.Bold, color.FgWhite)
	ColorFolder  = color.New(color.FgBlue)
)

// Priority colors, one per load priority
var (
	ColorDemandLoad       = color.New(color.FgGreen)
	ColorBackgroundLoad   = color.New(color.FgCyan)
	ColorLoadIfNeeded     = color.New(color.FgYellow)
	ColorExplicitLoadOnly = color.New(color.FgHiBlack)
)

// PriorityColor returns the color projects with priority p are shown in
func PriorityColor(p settings.LoadPriority) *color.Color {
	switch p {
	case settings.BackgroundLoad:
		return ColorBackgroundLoad
	case settings.LoadIfNeeded:
		return ColorLoadIfNeeded
	case settings.ExplicitLoadOnly:
		return ColorExplicitLoadOnly
	default:
		return ColorDemandLoad
	}
}

// IsColorEnabled checks if color output should be enabled for w
func IsColorEnabled(w io.Writer) bool {
	// Disable colors if not a TTY
	if !isTerminal(w) {
		return false
	}

	// Check NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check TERM environment variable
	t := os.Getenv("TERM")
	if t == "dumb" || t == "" {
		return false
	}

	return true
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
