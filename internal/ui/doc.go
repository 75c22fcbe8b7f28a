// Package ui provides styled terminal output for the phonelink CLI.
//
// Styling uses Lipgloss and degrades to plain text when stdout is not a
// terminal, so piped output stays machine-readable.
package ui
