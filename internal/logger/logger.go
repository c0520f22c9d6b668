// Package logger provides leveled logging for the relay. It wraps the
// standard log package with level-based filtering so that per-tick polling
// noise can be silenced in production without losing delivery and error logs.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs are voluminous (per poll tick) and usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs need attention but not individual review.
	WarnLevel
	// ErrorLevel logs are high-priority delivery or source failures.
	ErrorLevel
)

// Logger provides leveled logging
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger *Logger

// Init initializes the default logger with the specified level and format.
// The "text" format adds source file locations, which helps when chasing a
// misclassified bot message through the correlator.
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}

	defaultLogger = &Logger{
		level:  parseLevel(level),
		logger: log.New(os.Stderr, "", flags),
	}
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func output(min Level, prefix, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > min {
		return
	}
	msg := fmt.Sprintf(prefix+format, args...)
	_ = defaultLogger.logger.Output(3, msg)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	output(DebugLevel, "[DEBUG] ", format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	output(InfoLevel, "[INFO] ", format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	output(WarnLevel, "[WARN] ", format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	output(ErrorLevel, "[ERROR] ", format, args...)
}

// Fatal logs a message and exits
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	if defaultLogger != nil {
		_ = defaultLogger.logger.Output(2, msg)
	} else {
		log.Print(msg)
	}
	os.Exit(1)
}
