// Package ui holds the color themes shared by the REPL, the benchmark
// table and the keypad interface: ANSI sequences for line output and a
// matching lipgloss palette for the TUI.
package ui
