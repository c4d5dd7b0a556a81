// Package ui holds the colour themes shared by the CLI and the dashboard.
// CLI output uses ANSI escape codes; the dashboard uses lipgloss colours.
package ui
