// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayExpressionResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteReportToFile].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/orchestration"
	"github.com/agbru/calcbench/internal/ui"
)

// EncodeReport writes report to w as YAML or JSON. The format is "yaml",
// "yml" or "json".
func EncodeReport(w io.Writer, report orchestration.Report, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported report format %q (accepted values: yaml, yml, json)", format)
}

// WriteReportToFile writes report to path, choosing the encoding from the
// file extension. Missing directories are created.
func WriteReportToFile(report orchestration.Report, path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return fmt.Errorf("output file %q has no extension (use .yaml, .yml or .json)", path)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.WrapError(err, "create report directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "create report file %s", path)
	}
	if err := EncodeReport(file, report, ext); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// FormatQuietResult formats an evaluation result for scripting: the
// display value alone.
func FormatQuietResult(value string) string {
	return value
}

// DisplayExpressionResult prints the outcome of a one-shot evaluation.
func DisplayExpressionResult(out io.Writer, text, value, backend string, duration time.Duration, quiet bool) {
	if quiet {
		fmt.Fprintln(out, FormatQuietResult(value))
		return
	}
	color := ui.ColorGreen()
	if value == "Error" {
		color = ui.ColorRed()
	}
	fmt.Fprintf(out, "%s = %s%s%s\n", text, color, value, ui.ColorReset())
	fmt.Fprintf(out, "%s(%s, %s)%s\n", ui.ColorGrey(), backend, displayDuration(duration), ui.ColorReset())
}

// DisplaySavedReport confirms that a report was written.
func DisplaySavedReport(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
