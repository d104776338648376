// Package logging provides component-scoped, printf-style loggers that write
// to files. The terminal belongs to the UI, so nothing here writes to stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal logging contract used across the module.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger { return nopLogger{} }

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

// Category selects the log file a logger writes to.
type Category string

const (
	CategoryService Category = "service"
	CategoryLLM     Category = "llm"
)

func fileName(c Category) string {
	if c == CategoryLLM {
		return "humanos-llm.log"
	}
	return "humanos.log"
}

var (
	mu      sync.Mutex
	dir     string
	sinks   = map[Category]*log.Logger{}
	files   []*os.File
	discard = log.New(io.Discard, "", 0)
)

// Init points all loggers at logDir. Calling it again closes previous files.
// Until Init is called, loggers discard output.
func Init(logDir string) error {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	if strings.TrimSpace(logDir) == "" {
		return nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	dir = logDir
	return nil
}

// Close flushes and closes open log files.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	for _, f := range files {
		_ = f.Close()
	}
	files = nil
	sinks = map[Category]*log.Logger{}
	dir = ""
}

func sink(c Category) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := sinks[c]; ok {
		return l
	}
	if dir == "" {
		return discard
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName(c)), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		sinks[c] = discard
		return discard
	}
	files = append(files, f)
	l := log.New(f, "", 0)
	sinks[c] = l
	return l
}

// NewWriterLogger returns a logger that writes to w.
func NewWriterLogger(w io.Writer, component string) Logger {
	return &componentLogger{component: component, out: log.New(w, "", 0)}
}

// NewComponentLogger returns the service logger scoped to a component.
func NewComponentLogger(component string) Logger {
	return &componentLogger{component: component, category: CategoryService}
}

// NewLLMLogger returns a logger writing to the dedicated inference log.
func NewLLMLogger(component string) Logger {
	return &componentLogger{component: component, category: CategoryLLM}
}

type componentLogger struct {
	component string
	category  Category
	out       *log.Logger
}

func (l *componentLogger) Debug(format string, args ...any) { l.write("DEBUG", format, args) }
func (l *componentLogger) Info(format string, args ...any)  { l.write("INFO", format, args) }
func (l *componentLogger) Warn(format string, args ...any)  { l.write("WARN", format, args) }
func (l *componentLogger) Error(format string, args ...any) { l.write("ERROR", format, args) }

func (l *componentLogger) write(level, format string, args []any) {
	out := l.out
	if out == nil {
		out = sink(l.category)
	}
	msg := fmt.Sprintf(format, args...)
	out.Printf("%s [%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05.000"), level, l.component, msg)
}
