package config

import "runtime"

// Parallelism resolution chain (highest priority first):
//   1. CLI flag (--parallel)
//   2. Environment variable (CALCBENCH_PARALLEL)
//   3. Hardware estimation (this file)

// ApplyAdaptiveDefaults fills settings left at their zero default with
// values derived from the host. User-specified values are preserved.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Parallelism == 0 {
		cfg.Parallelism = EstimateParallelism()
	}
	return cfg
}

// EstimateParallelism picks a job limit for the benchmark pool. The
// workloads are CPU bound, so one core is left to the progress display
// and the scheduler on machines that have cores to spare.
func EstimateParallelism() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 1 // Timings are meaningless when jobs fight for one core
	case numCPU <= 4:
		return numCPU - 1
	default:
		return numCPU - 2
	}
}
