// Package log provides the build tool's leveled logging with a batch job
// counter. Output goes to stderr; color is applied only when stderr is a
// terminal.
package log

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Level controls which messages are emitted.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[1;31m"
	colorYellow = "\x1b[1;33m"
	colorGreen  = "\x1b[1;32m"
	colorBlue   = "\x1b[1;34m"
)

var (
	mu       sync.Mutex
	level    = LevelInfo
	colored  = term.IsTerminal(int(os.Stderr.Fd()))
	jobs     int
	jobsDone int
)

// SetLevel sets the minimum emitted level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetColor overrides the terminal auto-detection.
func SetColor(on bool) {
	mu.Lock()
	defer mu.Unlock()
	colored = on
}

// SetJobs arms the job counter for a batch of n jobs. Subsequent Info lines
// are prefixed with the [done/total] counter until Finished is called.
func SetJobs(n int) {
	mu.Lock()
	defer mu.Unlock()
	jobs = n
	jobsDone = 0
}

// JobDone advances the counter by one.
func JobDone() {
	mu.Lock()
	defer mu.Unlock()
	if jobsDone < jobs {
		jobsDone++
	}
}

// Finished disarms the job counter.
func Finished() {
	mu.Lock()
	defer mu.Unlock()
	jobs = 0
	jobsDone = 0
}

func emit(min Level, color, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < min {
		return
	}

	prefix := ""
	if jobs > 0 {
		prefix = fmt.Sprintf("[%d/%d] ", jobsDone, jobs)
	}
	if colored {
		fmt.Fprintf(os.Stderr, "%s%s%s%s: %s\n", prefix, color, tag, colorReset, fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(os.Stderr, "%s%s: %s\n", prefix, tag, fmt.Sprintf(format, args...))
}

// Errorf logs an error line.
func Errorf(format string, args ...any) {
	emit(LevelError, colorRed, "error", format, args...)
}

// Warnf logs a warning line.
func Warnf(format string, args ...any) {
	emit(LevelWarn, colorYellow, "warn", format, args...)
}

// Infof logs an informational line.
func Infof(format string, args ...any) {
	emit(LevelInfo, colorBlue, "info", format, args...)
}

// Donef logs a completed-job line, green where color is on.
func Donef(format string, args ...any) {
	emit(LevelInfo, colorGreen, "done", format, args...)
}
