package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/agbru/calcbench/internal/config"
	"github.com/agbru/calcbench/internal/expr"
)

func newTestServer() *Server {
	cfg := config.AppConfig{
		Backend:     config.BackendAll,
		FactorialN:  10,
		FibN:        15,
		MediumTerms: 10,
		LongTerms:   50,
		Parallelism: 2,
		Timeout:     30 * time.Second,
	}
	return NewServer(expr.NewDefaultFactory(), cfg, WithLogger(newTestLogger()))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rec
}

func TestServer_Evaluate(t *testing.T) {
	t.Parallel()
	s := newTestServer()

	tests := []struct {
		name        string
		query       url.Values
		wantCode    int
		wantDisplay string
		wantValue   bool
	}{
		{"goconst", url.Values{"expr": {"1+2+3*4-5/2"}, "backend": {"goconst"}}, http.StatusOK, "12.5", true},
		{"govaluate", url.Values{"expr": {"2*(3+4)"}, "backend": {"govaluate"}}, http.StatusOK, "14", true},
		{"default backend", url.Values{"expr": {"7"}}, http.StatusOK, "7", true},
		{"syntax error", url.Values{"expr": {"1+"}, "backend": {"goconst"}}, http.StatusUnprocessableEntity, "Error", false},
		{"array literal", url.Values{"expr": {"[1]"}, "backend": {"govaluate"}}, http.StatusUnprocessableEntity, "Error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, s, "/evaluate?"+tt.query.Encode())
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp EvaluateResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Display != tt.wantDisplay {
				t.Errorf("display = %q, want %q", resp.Display, tt.wantDisplay)
			}
			if (resp.Value != nil) != tt.wantValue {
				t.Errorf("value present = %v, want %v", resp.Value != nil, tt.wantValue)
			}
		})
	}
}

func TestServer_EvaluateRejects(t *testing.T) {
	t.Parallel()
	s := NewServer(expr.NewDefaultFactory(), config.AppConfig{Timeout: time.Second},
		WithLogger(newTestLogger()),
		WithSecurityConfig(SecurityConfig{MaxExprLength: 8}))

	tests := []struct {
		target   string
		wantCode int
	}{
		{"/evaluate", http.StatusBadRequest},
		{"/evaluate?expr=1%2B1&backend=nope", http.StatusBadRequest},
		{"/evaluate?expr=" + strings.Repeat("1", 9), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		if rec := get(t, s, tt.target); rec.Code != tt.wantCode {
			t.Errorf("GET %s status = %d, want %d", tt.target, rec.Code, tt.wantCode)
		}
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate?expr=1", http.NoBody))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestServer_Bench(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	rec := get(t, s, "/bench?fib_n=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var report struct {
		ID       string   `json:"id"`
		Backends []string `json:"backends"`
		Cases    []struct {
			Name    string `json:"name"`
			Results []struct {
				Value string `json:"value"`
				Error string `json:"error"`
			} `json:"results"`
		} `json:"cases"`
		Mismatches []string `json:"mismatches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.ID == "" || len(report.Backends) != 2 || len(report.Cases) != 5 {
		t.Fatalf("unexpected report: %s", rec.Body.String())
	}
	if got := report.Cases[4].Results[0].Value; got != "55" {
		t.Errorf("fib(10) = %q, want 55", got)
	}
	if len(report.Mismatches) != 0 {
		t.Errorf("mismatches = %v", report.Mismatches)
	}

	metrics := get(t, s, "/metrics").Body.String()
	if !strings.Contains(metrics, `calcbench_benchmark_case_duration_seconds_count{backend="goconst",case="fib"} 1`) {
		t.Error("benchmark results should be recorded in the metrics")
	}
}

func TestServer_BenchInvalidParams(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	targets := []string{
		"/bench?fib_n=abc",
		"/bench?fib_n=200",
		"/bench?long_terms=0",
		"/bench?backend=nope",
		"/bench?factsum_n=100000000000",
		"/bench?long_terms=1000000000",
		"/bench?medium_terms=2000000",
	}
	for _, target := range targets {
		if rec := get(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}

	rec := get(t, s, "/bench?fib_n=abc")
	if body := rec.Body.String(); !strings.Contains(body, `invalid fib_n`) {
		t.Errorf("error body does not name the parameter: %s", body)
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	rec := get(t, newTestServer(), "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be applied to every route")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
