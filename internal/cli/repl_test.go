package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/calcbench/internal/config"
	"github.com/agbru/calcbench/internal/expr"
)

func newTestREPL(backend string) (*REPL, *bytes.Buffer) {
	r := NewREPL(expr.NewDefaultFactory(), REPLConfig{
		Backend: backend,
		Timeout: 10 * time.Second,
		Bench: config.AppConfig{
			FactorialN:  10,
			FibN:        15,
			MediumTerms: 10,
			LongTerms:   100,
			Parallelism: 2,
		},
		Logger: zerolog.Nop(),
	})
	var out bytes.Buffer
	r.SetOutput(&out)
	return r, &out
}

func TestREPL_KeySequences(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"digits", []string{"1 2 3"}, "123"},
		{"number token", []string{"12.5"}, "12.5"},
		{"chained operators", []string{"2 + 3 *", "4 ="}, "20"},
		{"square root", []string{"81 sqrt"}, "9"},
		{"negate", []string{"5 neg"}, "-5"},
		{"percent", []string{"50 %"}, "0.5"},
		{"clear", []string{"9 + 1", "clear"}, "0"},
		{"division by zero", []string{"1 / 0 ="}, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, _ := newTestREPL("goconst")
			for _, line := range tt.lines {
				if !r.ProcessLine(line) {
					t.Fatalf("ProcessLine(%q) ended the session", line)
				}
			}
			if got := r.Engine().GetValue(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestREPL_Eval(t *testing.T) {
	t.Parallel()
	for _, backend := range []string{"goconst", "govaluate"} {
		r, out := newTestREPL(backend)
		r.ProcessLine("7 +")
		r.ProcessLine("eval 1+2+3*4-5/2")
		if got := r.Engine().GetValue(); got != "12.5" {
			t.Errorf("%s: eval value = %q, want 12.5", backend, got)
		}
		if !strings.Contains(out.String(), backend) {
			t.Errorf("%s: output should name the backend", backend)
		}
	}
}

func TestREPL_EvalUsage(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.ProcessLine("eval")
	if !strings.Contains(out.String(), "Usage: eval") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Workloads(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.ProcessLine("fib 20")
	r.ProcessLine("factsum 4")
	r.ProcessLine("fib 200")
	r.ProcessLine("factsum x")
	r.ProcessLine("factsum 100000000000")
	output := out.String()
	for _, want := range []string{"fib(20) = 6765", "factsum(4) = 33", "limited to n ≤ 93", "Invalid value: x", "factsum is limited to n ≤ 20000"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestREPL_WorkloadTimeout(t *testing.T) {
	t.Parallel()
	r := NewREPL(expr.NewDefaultFactory(), REPLConfig{
		Backend: "goconst",
		Timeout: time.Nanosecond,
		Logger:  zerolog.Nop(),
	})
	var out bytes.Buffer
	r.SetOutput(&out)

	r.ProcessLine("fib 40")
	if !strings.Contains(out.String(), "fib(40) timed out after 1ns") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Backend(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.ProcessLine("5")
	r.ProcessLine("backend govaluate")
	if r.backend != "govaluate" {
		t.Errorf("backend = %q", r.backend)
	}
	if r.Engine().GetValue() != "0" {
		t.Error("switching backend should start a fresh engine")
	}
	r.ProcessLine("backend nope")
	if !strings.Contains(out.String(), "Unknown backend: nope") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_DefaultsToFirstBackend(t *testing.T) {
	t.Parallel()
	r, _ := newTestREPL(config.BackendAll)
	if r.backend != "goconst" {
		t.Errorf("backend = %q, want goconst", r.backend)
	}
}

func TestREPL_UnknownCommandSuggests(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.ProcessLine("sqtr")
	if !strings.Contains(out.String(), "Did you mean sqrt?") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Status(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.ProcessLine("3 *")
	r.ProcessLine("status")
	if !strings.Contains(out.String(), "Pending:    3 *") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Bench(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.ProcessLine("bench")
	output := out.String()
	for _, want := range []string{"Comparison Summary", "short", "medium", "long", "heavy", "fib", "All backends agree"} {
		if !strings.Contains(output, want) {
			t.Errorf("bench output missing %q:\n%s", want, output)
		}
	}
}

func TestREPL_Start(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.SetInput(strings.NewReader("2 + 2 =\nhelp\nexit\n9\n"))
	r.Start()
	output := out.String()
	if !strings.Contains(output, "Goodbye!") {
		t.Error("expected a goodbye message")
	}
	if r.Engine().GetValue() != "4" {
		t.Errorf("lines after exit should not run, value = %q", r.Engine().GetValue())
	}
}

func TestREPL_StartEOF(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL("goconst")
	r.SetInput(strings.NewReader("1 + 1"))
	r.Start()
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("EOF should end the session")
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"benc":    "bench",
		"EXITT":   "exit",
		"squre":   "square",
		"zzzzzzz": "",
	}
	for word, want := range tests {
		if got := Suggest(word); got != want {
			t.Errorf("Suggest(%q) = %q, want %q", word, got, want)
		}
	}
}
