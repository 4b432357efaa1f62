// Package apperrors holds the exit codes of calcbench and the error types
// that decide them: configuration and validation errors exit with
// ExitErrorConfig, timeouts with ExitErrorTimeout, and failed benchmark
// jobs (CalculationError) with ExitErrorGeneric. HandleCalculationError
// performs that mapping and prints the message.
package apperrors
