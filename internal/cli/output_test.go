package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agbru/calcbench/internal/orchestration"
)

func sampleReport() orchestration.Report {
	short := orchestration.Case{Name: "short", Kind: orchestration.KindExpression, Expr: orchestration.ShortExpression}
	heavy := orchestration.Case{Name: "heavy", Kind: orchestration.KindFactorialSum, N: 5000}
	results := []orchestration.CaseResult{
		{Case: short, Backend: "goconst", Value: 12.5, Duration: time.Millisecond},
		{Case: short, Backend: "govaluate", Value: 12.5, Duration: 2 * time.Millisecond},
		{Case: heavy, Backend: "goconst", Value: math.Inf(1), Duration: time.Millisecond},
		{Case: heavy, Backend: "govaluate", Value: math.Inf(1), Duration: time.Millisecond},
	}
	return orchestration.BuildReport(results, []string{"goconst", "govaluate"})
}

func TestWriteReportToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	report := sampleReport()

	tests := []struct {
		name    string
		path    string
		wantErr bool
		check   func(t *testing.T, data []byte)
	}{
		{
			name: "yaml",
			path: filepath.Join(tmpDir, "report.yaml"),
			check: func(t *testing.T, data []byte) {
				var decoded map[string]any
				if err := yaml.Unmarshal(data, &decoded); err != nil {
					t.Fatalf("invalid yaml: %v", err)
				}
				if decoded["id"] != report.ID {
					t.Errorf("id = %v, want %s", decoded["id"], report.ID)
				}
				if !strings.Contains(string(data), "Infinity") {
					t.Error("yaml should contain the infinite heavy value")
				}
			},
		},
		{
			name: "json in nested directory",
			path: filepath.Join(tmpDir, "nested", "dir", "report.json"),
			check: func(t *testing.T, data []byte) {
				var generic map[string]any
				if err := json.Unmarshal(data, &generic); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if generic["id"] != report.ID {
					t.Errorf("id = %v, want %s", generic["id"], report.ID)
				}
			},
		},
		{name: "unsupported extension", path: filepath.Join(tmpDir, "report.txt"), wantErr: true},
		{name: "missing extension", path: filepath.Join(tmpDir, "report"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := WriteReportToFile(report, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			data, err := os.ReadFile(tt.path)
			if err != nil {
				t.Fatalf("reading report: %v", err)
			}
			tt.check(t, data)
		})
	}
}

func TestEncodeReport_UnknownFormat(t *testing.T) {
	t.Parallel()
	if err := EncodeReport(&bytes.Buffer{}, sampleReport(), "xml"); err == nil {
		t.Error("expected an error for xml")
	}
}

func TestDisplayExpressionResult(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	DisplayExpressionResult(&quiet, "1+1", "2", "goconst", time.Millisecond, true)
	if quiet.String() != "2\n" {
		t.Errorf("quiet output = %q, want %q", quiet.String(), "2\n")
	}

	var full bytes.Buffer
	DisplayExpressionResult(&full, "1+1", "2", "goconst", time.Millisecond, false)
	for _, want := range []string{"1+1 = 2", "goconst", "1ms"} {
		if !strings.Contains(full.String(), want) {
			t.Errorf("output missing %q: %s", want, full.String())
		}
	}
}
