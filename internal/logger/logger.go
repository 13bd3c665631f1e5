// Package logger provides a small levelled logger shared by the whole
// service. The level can be flipped at runtime (the feature-flag watcher
// in main does exactly that).
package logger

import (
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level ordering: debug < info < warn < error.
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	current atomic.Int32
	std     = log.New(os.Stdout, "", log.LstdFlags)
)

func parseLevel(s string) int32 {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Init sets the initial level from a string ("debug", "info", "warn", "error").
// Unknown values fall back to info.
func Init(level string) {
	current.Store(parseLevel(level))
}

// SetLevel changes the level at runtime.
func SetLevel(level string) {
	current.Store(parseLevel(level))
}

// GetLevel returns the current level name.
func GetLevel() string {
	switch current.Load() {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func logf(level int32, prefix, format string, args ...interface{}) {
	if level < current.Load() {
		return
	}
	std.Printf(prefix+format, args...)
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) {
	logf(LevelDebug, "DEBUG ", format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	logf(LevelInfo, "INFO  ", format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) {
	logf(LevelWarn, "WARN  ", format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) {
	logf(LevelError, "ERROR ", format, args...)
}
