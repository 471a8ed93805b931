// Package logger provides a minimal leveled logger shared by the engine and
// the maintenance daemon.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu           sync.Mutex
	currentLevel = LevelInfo
	out          = stdlog.New(os.Stdout, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the minimum level that gets emitted. Unknown names are
// ignored, leaving the current level in place.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN", "WARNING":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetOutput redirects log output, mainly so tests can capture or silence it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = stdlog.New(w, "", 0)
}

func emit(level Level, format string, v ...any) {
	mu.Lock()
	enabled := level >= currentLevel
	sink := out
	mu.Unlock()

	if !enabled {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	sink.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level.String(), fmt.Sprintf(format, v...)))
}

func Debug(format string, v ...any) {
	emit(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	emit(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	emit(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	emit(LevelError, format, v...)
}
