package util

import (
	"fmt"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"

	ClearScreen         = "\033[2J"   // Clear entire screen
	ClearLine           = "\033[2K"   // Clear entire line
	ClearLineFromCursor = "\033[0K"   // Clear from cursor to end of line
	ClearScrollback     = "\033[3J"   // Clear scrollback buffer
	MoveCursorHome      = "\033[H"    // Move cursor to home position
	HideCursor          = "\033[?25l" // Hide cursor
	ShowCursor          = "\033[?25h" // Show cursor
)

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}
