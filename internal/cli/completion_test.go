package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	backends := []string{"goconst", "govaluate"}
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"_calcbench_completions", "--backend)", "goconst govaluate all", "--output|-o)", "complete -F"}},
		{"zsh", []string{"#compdef calcbench", "($backends)", "'(-q --quiet)'{-q,--quiet}'[Quiet mode for scripts]'", ":file:_files"}},
		{"fish", []string{"complete -c calcbench -l backend", "-xa 'goconst govaluate all'", "-s o -l output", "-rF"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, backends); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()
	err := GenerateCompletion(&bytes.Buffer{}, "tcsh", nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported shell") {
		t.Errorf("expected unsupported shell error, got %v", err)
	}
}

func TestFlagRegistry_UniqueNames(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		for _, p := range flagPatterns(f) {
			if seen[p] {
				t.Errorf("duplicate flag %s", p)
			}
			seen[p] = true
		}
	}
}
