package logging

import (
	"fmt"
	"os"
)

// Level represents log severity.
type Level string

const (
	DebugLevel Level = "debug"
	ErrorLevel Level = "error"
)

// LogFunc is a single logger function that handles all levels.
type LogFunc func(level Level, msg string, keyvals ...interface{})

var logFunc LogFunc = func(Level, string, ...interface{}) {}

// SetLogger sets the process-wide logger function.
func SetLogger(f LogFunc) {
	if f != nil {
		logFunc = f
	}
}

// Stderr returns a LogFunc that writes key=value lines to stderr.
func Stderr() LogFunc {
	return func(level Level, msg string, keyvals ...interface{}) {
		line := string(level) + " " + msg
		for i := 0; i+1 < len(keyvals); i += 2 {
			line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
		}
		_, _ = fmt.Fprintln(os.Stderr, line)
	}
}

// Debug logs a message at debug level.
func Debug(msg string, keyvals ...interface{}) {
	logFunc(DebugLevel, msg, keyvals...)
}

// Error logs a message at error level.
func Error(msg string, keyvals ...interface{}) {
	logFunc(ErrorLevel, msg, keyvals...)
}
