// Package debuglog records printer dispatch decisions to a file so declined
// and self-test-rejected values can be diagnosed after the fact.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mabhi256/cgdiag/internal/pretty"
)

type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Type      string    `json:"type,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Variant   string    `json:"variant,omitempty"`
	Detail    any       `json:"detail,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Logger appends JSON entries to a debug file. A nil *Logger discards
// everything, so callers never need to check whether debugging is on.
type Logger struct {
	mu   sync.Mutex
	out  io.WriteCloser
	path string
}

// Open creates or appends to path. An empty path picks a timestamped name
// in the working directory.
func Open(path string) (*Logger, error) {
	if path == "" {
		path = fmt.Sprintf("cgdiag_debug_%s.log", time.Now().Format("20060102_150405"))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log file: %w", err)
	}

	header := fmt.Sprintf("=== cgdiag debug session started at %s ===\n", time.Now().Format(time.RFC3339))
	if _, err := file.WriteString(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write debug header: %w", err)
	}

	return &Logger{out: file, path: path}, nil
}

// New logs to an arbitrary writer
func New(w io.WriteCloser) *Logger {
	return &Logger{out: w}
}

func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Observe records one dispatcher decision. Matches are only interesting
// next to the declines, so they are logged too.
func (l *Logger) Observe(e pretty.Event) {
	entry := Entry{
		Timestamp: time.Now(),
		Kind:      string(e.Kind),
		Type:      e.Type,
		Tag:       e.Tag,
		Variant:   e.Variant,
	}
	if e.Err != nil {
		entry.Error = e.Err.Error()
	}
	l.write(entry)
}

// Observer adapts the logger to the dispatcher hook
func (l *Logger) Observer() pretty.Observer {
	if l == nil {
		return nil
	}
	return l.Observe
}

// Warning records a non-fatal problem, e.g. an unknown snapshot key
func (l *Logger) Warning(source, message string) {
	l.write(Entry{
		Timestamp: time.Now(),
		Kind:      "warning",
		Detail:    map[string]string{"source": source, "message": message},
	})
}

// Record logs arbitrary structured data under kind
func (l *Logger) Record(kind string, detail any) {
	l.write(Entry{Timestamp: time.Now(), Kind: kind, Detail: detail})
}

func (l *Logger) write(entry Entry) {
	if l == nil || l.out == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out, "[%s] ERROR: failed to marshal %s entry: %v\n",
			entry.Timestamp.Format(time.RFC3339), entry.Kind, err)
		return
	}

	l.out.Write(append(data, '\n'))
	if f, ok := l.out.(*os.File); ok {
		f.Sync()
	}
}

func (l *Logger) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
