package logging

import (
	"context"

	"github.com/google/uuid"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// runID labels every log line of this process so restarts are
// distinguishable in Loki
var runID = uuid.NewString()

type LoggerFactoryImpl struct {
	config *config.LoggingConfig
}

func NewLoggerFactory(config *config.LoggingConfig) domain.LoggerFactory {
	return &LoggerFactoryImpl{
		config: config,
	}
}

// CreateLogger assembles the sink chain for a component: rotating file and
// Loki when configured, filtered by level, mirrored to stdout in debug mode
func (f *LoggerFactoryImpl) CreateLogger(component string) domain.Logger {
	var sinks []domain.Logger

	if f.config.FilePath != "" {
		sinks = append(sinks, NewFileLogger(f.config, component))
	}

	if f.config.Promtail != nil && f.config.Promtail.URL != "" {
		promtailLogger, err := NewPromtailLogger(f.config.Promtail, component)
		if err == nil {
			sinks = append(sinks, promtailLogger)
		}
		// A failed promtail client leaves the remaining sinks in place
	}

	var logger domain.Logger
	switch len(sinks) {
	case 0:
		logger = &NoOpLogger{}
	case 1:
		logger = sinks[0]
	default:
		logger = NewCompositeLogger(sinks...)
	}

	logger = NewLevelFilterLogger(logger, domain.ParseLogLevel(f.config.Level))

	// Wrap with debug logger if debug mode is enabled
	if f.config.Debug {
		logger = NewDebugLogger(logger, component)
	}

	return logger.WithFields(domain.NewField("run_id", runID))
}

// CompositeLogger fans every log call out to all sinks
type CompositeLogger struct {
	sinks []domain.Logger
}

func NewCompositeLogger(sinks ...domain.Logger) *CompositeLogger {
	return &CompositeLogger{sinks: sinks}
}

func (c *CompositeLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	for _, s := range c.sinks {
		s.Debug(ctx, msg, fields...)
	}
}

func (c *CompositeLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	for _, s := range c.sinks {
		s.Info(ctx, msg, fields...)
	}
}

func (c *CompositeLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	for _, s := range c.sinks {
		s.Warn(ctx, msg, fields...)
	}
}

func (c *CompositeLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	for _, s := range c.sinks {
		s.Error(ctx, msg, fields...)
	}
}

func (c *CompositeLogger) WithFields(fields ...domain.Field) domain.Logger {
	newSinks := make([]domain.Logger, len(c.sinks))
	for i, s := range c.sinks {
		newSinks[i] = s.WithFields(fields...)
	}
	return &CompositeLogger{sinks: newSinks}
}

// Shutdown closes every sink that supports closing
func (c *CompositeLogger) Shutdown() error {
	var firstErr error
	for _, s := range c.sinks {
		if shutdowner, ok := s.(interface{ Shutdown() error }); ok {
			if err := shutdowner.Shutdown(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LevelFilterLogger filters log messages based on minimum level
type LevelFilterLogger struct {
	wrapped  domain.Logger
	minLevel domain.LogLevel
}

func NewLevelFilterLogger(wrapped domain.Logger, minLevel domain.LogLevel) *LevelFilterLogger {
	return &LevelFilterLogger{
		wrapped:  wrapped,
		minLevel: minLevel,
	}
}

func (l *LevelFilterLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelDebug >= l.minLevel {
		l.wrapped.Debug(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelInfo >= l.minLevel {
		l.wrapped.Info(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelWarn >= l.minLevel {
		l.wrapped.Warn(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelError >= l.minLevel {
		l.wrapped.Error(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &LevelFilterLogger{
		wrapped:  l.wrapped.WithFields(fields...),
		minLevel: l.minLevel,
	}
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) WithFields(fields ...domain.Field) domain.Logger {
	return n
}
