package cli

import (
	"os"
	"testing"

	"github.com/agbru/calcbench/internal/ui"
)

// TestMain disables colors so output assertions see plain text.
func TestMain(m *testing.M) {
	ui.InitTheme(ui.ThemeNone, true)
	os.Exit(m.Run())
}
