package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/calcbench/internal/config"
	"github.com/agbru/calcbench/internal/orchestration"
	"github.com/agbru/calcbench/internal/ui"
)

// CPUFeatures lists the SIMD extensions reported by the CPU.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "SSE4.1")
		add(cpu.X86.HasSSE42, "SSE4.2")
		add(cpu.X86.HasAVX, "AVX")
		add(cpu.X86.HasAVX2, "AVX2")
		add(cpu.X86.HasFMA, "FMA")
		add(cpu.X86.HasAVX512F, "AVX-512F")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "ASIMD")
		add(cpu.ARM64.HasFP, "FP")
		add(cpu.ARM64.HasSVE, "SVE")
	}
	return features
}

// PrintExecutionConfig displays the benchmark configuration and the
// execution environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Cases: medium=%s%d%s terms, long=%s%d%s terms, factsum(%s%d%s), fib(%s%d%s); timeout %s%s%s.\n",
		ui.ColorMagenta(), cfg.MediumTerms, ui.ColorReset(),
		ui.ColorMagenta(), cfg.LongTerms, ui.ColorReset(),
		ui.ColorMagenta(), cfg.FactorialN, ui.ColorReset(),
		ui.ColorMagenta(), cfg.FibN, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %d concurrent jobs.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(), cfg.Parallelism)
	if features := CPUFeatures(); len(features) > 0 {
		fmt.Fprintf(out, "CPU features: %s%s%s.\n", ui.ColorCyan(), strings.Join(features, " "), ui.ColorReset())
	}
}

// PrintExecutionMode displays the backends that will be compared.
func PrintExecutionMode(backends []orchestration.Backend, out io.Writer) {
	var modeDesc string
	if len(backends) > 1 {
		names := make([]string, len(backends))
		for i, b := range backends {
			names[i] = b.Name()
		}
		modeDesc = "Parallel comparison of " + strings.Join(names, " and ")
	} else if len(backends) == 1 {
		modeDesc = fmt.Sprintf("Single backend %s%s%s", ui.ColorGreen(), backends[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
