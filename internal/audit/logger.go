package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/orbital-control/occ/internal/orbit"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp       time.Time `json:"ts"`
	Source          string    `json:"source"`
	Body            string    `json:"body"`
	SemiMajorAxisKm float64   `json:"semiMajorAxisKm"`
	Eccentricity    float64   `json:"eccentricity"`
	Outcome         string    `json:"outcome"`
	Code            string    `json:"code,omitempty"`
}

// Logger writes audit entries to an append-only JSONL file.
type Logger struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
}

// NewLogger creates an audit logger writing to <logDir>/audit.jsonl.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, "audit.jsonl")
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		filePath: filePath,
		file:     file,
	}, nil
}

// LogComputation records one computation outcome. It satisfies the
// calculator's audit sink.
func (l *Logger) LogComputation(ctx context.Context, body string, elements orbit.Elements, outcome string, err error) {
	entry := Entry{
		Timestamp:       time.Now().UTC(),
		Source:          sourceFromContext(ctx),
		Body:            body,
		SemiMajorAxisKm: elements.SemiMajorAxisKm,
		Eccentricity:    elements.Eccentricity,
		Outcome:         outcome,
		Code:            errorCode(err),
	}

	l.writeEntry(entry)
}

// FilePath returns the path of the underlying audit log file.
func (l *Logger) FilePath() string {
	return l.filePath
}

// Close flushes and closes the audit log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("failed to close audit log file: %w", err)
	}
	return nil
}

func (l *Logger) writeEntry(entry Entry) {
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}
	_, _ = l.file.Write(append(line, '\n'))
}

// errorCode classifies a computation error into a stable audit code.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, orbit.ErrNonPositiveAxis):
		return "NON_POSITIVE_AXIS"
	case errors.Is(err, orbit.ErrNonPositiveMu):
		return "NON_POSITIVE_MU"
	case errors.Is(err, orbit.ErrUnknownBody):
		return "UNKNOWN_BODY"
	default:
		return "INTERNAL"
	}
}

type contextKey string

const sourceKey contextKey = "audit.source"

// WithSource annotates ctx with the request origin recorded in audit entries.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

func sourceFromContext(ctx context.Context) string {
	if source, ok := ctx.Value(sourceKey).(string); ok && source != "" {
		return source
	}
	return "unknown"
}
