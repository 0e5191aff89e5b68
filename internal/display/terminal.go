package display

import (
	"fmt"
	"strings"
	"time"
)

// WrittenFile is one file produced by a static run.
type WrittenFile struct {
	Name  string
	Items int // -1 for non-feed files
}

// SkippedFeed is a category feed that could not be produced.
type SkippedFeed struct {
	Slug   string
	Reason string
}

// TerminalFormatter formats generator progress for the terminal.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatWritten formats one "Wrote ..." line.
func (f *TerminalFormatter) FormatWritten(w WrittenFile) string {
	if w.Items < 0 {
		return fmt.Sprintf("Wrote %s", w.Name)
	}
	return fmt.Sprintf("Wrote %s (%s)", w.Name, pluralize(w.Items, "post"))
}

// FormatSummary formats the outcome of a static run.
func (f *TerminalFormatter) FormatSummary(written []WrittenFile, skipped []SkippedFeed, elapsed time.Duration) string {
	if len(written) == 0 && len(skipped) == 0 {
		return "Nothing written.\n"
	}

	var lines []string
	for _, w := range written {
		lines = append(lines, f.FormatWritten(w))
	}
	for _, s := range skipped {
		lines = append(lines, fmt.Sprintf("Skipped %s: %s", s.Slug, f.TruncateText(s.Reason, 120)))
	}
	lines = append(lines, fmt.Sprintf("Done in %s: %d written, %d skipped.",
		elapsed.Round(time.Millisecond), len(written), len(skipped)))

	return strings.Join(lines, "\n") + "\n"
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
