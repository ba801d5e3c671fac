package outwriter

import (
	"os"

	"golang.org/x/term"
)

// GetMaxDetailWidth calculates the maximum width for the finding detail
// column based on terminal width.
func GetMaxDetailWidth() int {
	termWidth := 80 // Conservative default for narrow terminals and CI
	if detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && detectedWidth > 0 {
		termWidth = detectedWidth
	}

	// Reserve space for the fixed columns (rank, kind, column, magnitude)
	// plus table borders and padding.
	available := termWidth - 55
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
