// Package logging wraps zerolog behind the small Logger interface that the
// server, the REPL and the benchmark harness take as a dependency. Engines
// log through the shared zerolog instance directly.
package logging
