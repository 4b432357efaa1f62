package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envBinding ties a CALCBENCH_* variable to the flags that take precedence
// over it. set leaves the configuration untouched when the value does not
// parse.
type envBinding struct {
	key   string
	flags []string
	set   func(c *AppConfig, raw string)
}

func uintVar(field func(*AppConfig) *uint) func(*AppConfig, string) {
	return func(c *AppConfig, raw string) {
		if n, err := strconv.ParseUint(raw, 10, 0); err == nil {
			*field(c) = uint(n)
		}
	}
}

func intVar(field func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, raw string) {
		if n, err := strconv.Atoi(raw); err == nil {
			*field(c) = n
		}
	}
}

func durationVar(field func(*AppConfig) *time.Duration) func(*AppConfig, string) {
	return func(c *AppConfig, raw string) {
		if d, err := time.ParseDuration(raw); err == nil {
			*field(c) = d
		}
	}
}

func stringVar(field func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, raw string) { *field(c) = raw }
}

func boolVar(field func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, raw string) {
		p := field(c)
		*p = parseBoolEnv(raw, *p)
	}
}

// envBindings lists every supported variable. The workload sizes go
// through Validate afterwards like their flags do.
var envBindings = []envBinding{
	{"FACTSUM_N", []string{"factsum-n"}, uintVar(func(c *AppConfig) *uint { return &c.FactorialN })},
	{"FIB_N", []string{"fib-n"}, uintVar(func(c *AppConfig) *uint { return &c.FibN })},
	{"MEDIUM_TERMS", []string{"medium-terms"}, intVar(func(c *AppConfig) *int { return &c.MediumTerms })},
	{"LONG_TERMS", []string{"long-terms"}, intVar(func(c *AppConfig) *int { return &c.LongTerms })},
	{"PARALLEL", []string{"parallel"}, intVar(func(c *AppConfig) *int { return &c.Parallelism })},
	{"TIMEOUT", []string{"timeout"}, durationVar(func(c *AppConfig) *time.Duration { return &c.Timeout })},
	{"BACKEND", []string{"backend"}, stringVar(func(c *AppConfig) *string { return &c.Backend })},
	{"SERVE", []string{"serve"}, stringVar(func(c *AppConfig) *string { return &c.Serve })},
	{"OUTPUT", []string{"output", "o"}, stringVar(func(c *AppConfig) *string { return &c.OutputFile })},
	{"THEME", []string{"theme"}, stringVar(func(c *AppConfig) *string { return &c.Theme })},
	{"LOG_LEVEL", []string{"log-level"}, stringVar(func(c *AppConfig) *string { return &c.LogLevel })},
	{"QUIET", []string{"quiet", "q"}, boolVar(func(c *AppConfig) *bool { return &c.Quiet })},
	{"DETAILS", []string{"details", "d"}, boolVar(func(c *AppConfig) *bool { return &c.Details })},
	{"NO_COLOR", []string{"no-color"}, boolVar(func(c *AppConfig) *bool { return &c.NoColor })},
	{"BENCH", []string{"bench"}, boolVar(func(c *AppConfig) *bool { return &c.Bench })},
	{"TUI", []string{"tui"}, boolVar(func(c *AppConfig) *bool { return &c.TUI })},
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case and falls back
// to current otherwise.
func parseBoolEnv(raw string, current bool) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return current
}

// applyEnvOverrides fills every setting whose flags were left at their
// defaults from the matching CALCBENCH_* variable, so flags win over the
// environment and the environment wins over defaults.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	for _, b := range envBindings {
		if flagged(explicit, b.flags) {
			continue
		}
		if raw := os.Getenv(EnvPrefix + b.key); raw != "" {
			b.set(cfg, raw)
		}
	}
}

func flagged(explicit map[string]bool, names []string) bool {
	for _, n := range names {
		if explicit[n] {
			return true
		}
	}
	return false
}
