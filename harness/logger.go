package harness

import "go.uber.org/zap"

// Logger defines the interface for logging within a benchmark run.
// The Logger is optional - if not provided, no logging occurs.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(format string, args ...interface{})

	// Info logs an info-level message.
	Info(format string, args ...interface{})

	// Warn logs a warning-level message.
	Warn(format string, args ...interface{})

	// Error logs an error-level message.
	Error(format string, args ...interface{})
}

// NoOpLogger is a logger that discards all log messages.
// This is the default logger when none is specified.
type NoOpLogger struct{}

// Debug implements the Logger interface.
func (NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (NoOpLogger) Error(format string, args ...interface{}) {}

// ZapLogger routes log messages to a zap logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l discards everything.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{s: l.Sugar()}
}

// Debug implements the Logger interface.
func (z *ZapLogger) Debug(format string, args ...interface{}) { z.s.Debugf(format, args...) }

// Info implements the Logger interface.
func (z *ZapLogger) Info(format string, args ...interface{}) { z.s.Infof(format, args...) }

// Warn implements the Logger interface.
func (z *ZapLogger) Warn(format string, args ...interface{}) { z.s.Warnf(format, args...) }

// Error implements the Logger interface.
func (z *ZapLogger) Error(format string, args ...interface{}) { z.s.Errorf(format, args...) }
