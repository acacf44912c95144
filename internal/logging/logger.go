/**
 * Structured logging for the OCR benchmark worker
 *
 * Small key-value logger shared by the orchestrator, engine registry and
 * storage layers. Constructed once per component and passed in explicitly;
 * there is no package-level logger.
 */

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger provides leveled key-value logging with a component prefix
type Logger struct {
	prefix string
	logger *log.Logger
}

// NewLogger creates a new logger with a component prefix
func NewLogger(prefix string) *Logger {
	return NewLoggerTo(os.Stdout, prefix)
}

// NewLoggerTo creates a logger writing to the given sink. Used by tests to
// capture output.
func NewLoggerTo(w io.Writer, prefix string) *Logger {
	return &Logger{
		prefix: prefix,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	var kv strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&kv, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Printf("[%s] %s%s", level, msg, kv.String())
}
