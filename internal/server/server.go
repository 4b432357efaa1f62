// Package server exposes the calculator and the benchmark suite over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/calcbench/internal/calculator"
	"github.com/agbru/calcbench/internal/config"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/expr"
	"github.com/agbru/calcbench/internal/logging"
	"github.com/agbru/calcbench/internal/orchestration"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves /evaluate, /bench, /metrics and /health.
type Server struct {
	factory  *expr.Factory
	cfg      config.AppConfig
	security SecurityConfig
	metrics  *Metrics
	logger   logging.Logger
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithMetrics shares a Metrics instance.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer builds a server. cfg supplies the listen address, the default
// benchmark sizes, the parallelism and the per-request timeout.
func NewServer(factory *expr.Factory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:  factory,
		cfg:      cfg,
		security: DefaultSecurityConfig(),
		logger:   logging.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.mux = http.NewServeMux()
	s.route("/evaluate", s.handleEvaluate)
	s.route("/bench", s.handleBench)
	s.route("/health", s.handleHealth)
	s.route("/metrics", s.handleMetrics)
	return s
}

func (s *Server) route(path string, h http.HandlerFunc) {
	s.mux.HandleFunc(path, SecurityMiddleware(s.security, s.metricsMiddleware(h)))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on s.cfg.Serve until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Serve)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Serve, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next(rec, r)
		s.metrics.ObserveRequest(r.URL.Path, rec.code, time.Since(start).Seconds())
	}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EvaluateResponse is the body of a successful /evaluate reply.
type EvaluateResponse struct {
	Expression string `json:"expression"`
	Backend    string `json:"backend"`
	// Display is the engine's display string, "Error" on failure.
	Display string `json:"display"`
	// Value is omitted when the result is not a finite number.
	Value      *float64 `json:"value,omitempty"`
	DurationNs int64    `json:"duration_ns"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, ErrorResponse{Error: msg})
}

func (s *Server) allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		if s.logger != nil {
			s.logger.Debug("method not allowed", logging.String("method", r.Method), logging.String("path", r.URL.Path))
		}
		return false
	}
	return true
}

func (s *Server) backendParam(r *http.Request) (string, expr.Evaluator, error) {
	name := r.URL.Query().Get("backend")
	if name == "" {
		name = s.cfg.Backend
	}
	if name == "" || name == config.BackendAll {
		names := s.factory.List()
		if len(names) == 0 {
			return "", nil, errors.New("no evaluator registered")
		}
		name = names[0]
	}
	ev, err := s.factory.Get(name)
	return name, ev, err
}

// handleEvaluate evaluates the expr parameter on a fresh engine.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	text := r.URL.Query().Get("expr")
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "missing expr parameter")
		return
	}
	if s.security.MaxExprLength > 0 && len(text) > s.security.MaxExprLength {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("expression longer than %d bytes", s.security.MaxExprLength))
		return
	}
	name, ev, err := s.backendParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := calculator.New(calculator.WithEvaluator(ev))
	start := time.Now()
	engine.EvaluateExpression(text)
	duration := time.Since(start)

	resp := EvaluateResponse{
		Expression: text,
		Backend:    name,
		Display:    engine.GetValue(),
		DurationNs: duration.Nanoseconds(),
	}
	ok := !engine.Failed()
	if v := engine.Value(); ok && !math.IsInf(v, 0) {
		resp.Value = &v
	}
	s.metrics.ObserveEvaluation(name, ok)
	s.logger.Debug("evaluated", logging.String("backend", name), logging.Int("length", len(text)), logging.String("display", resp.Display))

	code := http.StatusOK
	if !ok {
		code = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, code, resp)
}

// benchConfig overlays the optional query parameters on the server's
// benchmark configuration.
func (s *Server) benchConfig(r *http.Request) (config.AppConfig, error) {
	cfg := s.cfg
	cfg.Expr, cfg.Bench, cfg.TUI, cfg.Serve = "", true, false, ""
	q := r.URL.Query()
	if b := q.Get("backend"); b != "" {
		cfg.Backend = b
	}
	uints := map[string]*uint{"factsum_n": &cfg.FactorialN, "fib_n": &cfg.FibN}
	for key, dst := range uints {
		if v := q.Get(key); v != "" {
			n, err := strconv.ParseUint(v, 10, 0)
			if err != nil {
				return cfg, apperrors.ValidationError{Field: key, Message: fmt.Sprintf("%q is not a non-negative integer", v)}
			}
			*dst = uint(n)
		}
	}
	ints := map[string]*int{"medium_terms": &cfg.MediumTerms, "long_terms": &cfg.LongTerms}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, apperrors.ValidationError{Field: key, Message: fmt.Sprintf("%q is not an integer", v)}
			}
			*dst = n
		}
	}
	if err := cfg.Validate(s.factory.List()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// handleBench runs the suite and replies with the report.
func (s *Server) handleBench(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	cfg, err := s.benchConfig(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
	defer cancel()

	backends := orchestration.BackendsFor(cfg.Backend, s.factory)
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name()
	}
	opts := orchestration.Options{Parallelism: cfg.Parallelism, Observer: s.metrics, TrackMemory: true}
	results := orchestration.ExecuteBenchmarks(ctx, backends, orchestration.DefaultCases(cfg), opts, orchestration.NullProgressReporter{}, nil)
	report := orchestration.BuildReport(results, names)
	s.logger.Info("benchmark finished", logging.String("id", report.ID), logging.Int("jobs", len(results)))
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}
