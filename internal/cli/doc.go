// Package cli implements the terminal front end: the interactive
// calculator, the benchmark progress display and comparison table, report
// files and shell completion.
package cli
