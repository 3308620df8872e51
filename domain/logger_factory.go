package domain

// LoggerFactory builds per-component loggers. Implementations decide which
// sinks the returned logger writes to (console, rotating file, Loki) based on
// the logging configuration.
type LoggerFactory interface {
	// CreateLogger returns a logger tagged with the given component name.
	CreateLogger(component string) Logger
}
