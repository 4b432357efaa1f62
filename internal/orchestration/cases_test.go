package orchestration

import (
	"strings"
	"testing"

	"github.com/agbru/calcbench/internal/config"
)

func TestRepeatTerm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		term  string
		count int
		want  string
	}{
		{"8*8", 0, ""},
		{"8*8", 1, "8*8"},
		{"8*8", 3, "8*8+8*8+8*8"},
	}
	for _, tt := range tests {
		if got := RepeatTerm(tt.term, tt.count); got != tt.want {
			t.Errorf("RepeatTerm(%q, %d) = %q, want %q", tt.term, tt.count, got, tt.want)
		}
	}
}

func TestDefaultCases(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{FactorialN: 5000, FibN: 35, MediumTerms: 1000, LongTerms: 100000}
	cases := DefaultCases(cfg)

	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	if got := strings.Join(names, ","); got != "short,medium,long,heavy,fib" {
		t.Fatalf("case names = %s", got)
	}
	if strings.Count(cases[1].Expr, "8*8") != 1000 {
		t.Errorf("medium case has %d terms, want 1000", strings.Count(cases[1].Expr, "8*8"))
	}
	if strings.Count(cases[2].Expr, "+") != 99999 {
		t.Errorf("long case has %d operators, want 99999", strings.Count(cases[2].Expr, "+"))
	}
	if cases[3].Kind != KindFactorialSum || cases[3].N != 5000 {
		t.Errorf("heavy case = %+v", cases[3])
	}
	if cases[4].Kind != KindFibonacci || cases[4].N != 35 {
		t.Errorf("fib case = %+v", cases[4])
	}
}

func TestCaseKind_String(t *testing.T) {
	t.Parallel()
	tests := map[CaseKind]string{
		KindExpression:   "expression",
		KindFactorialSum: "factsum",
		KindFibonacci:    "fib",
		CaseKind(9):      "CaseKind(9)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestCase_Describe(t *testing.T) {
	t.Parallel()
	if got := (Case{Kind: KindExpression, Expr: ShortExpression}).Describe(); got != ShortExpression {
		t.Errorf("short Describe() = %q", got)
	}
	if got := (Case{Kind: KindExpression, Expr: RepeatTerm("9*9", 100)}).Describe(); got != "399 chars" {
		t.Errorf("long Describe() = %q", got)
	}
	if got := (Case{Kind: KindFibonacci, N: 35}).Describe(); got != "fib(35)" {
		t.Errorf("fib Describe() = %q", got)
	}
}
