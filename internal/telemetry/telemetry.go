// Package telemetry provides a JSONL event stream for recording kala runs.
// Every computed tree, failed system, active-period query, and chart reload
// is recorded as a structured JSON event so runs can be audited afterwards.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindRunStart      = "run_start"
	KindTreeBuilt     = "tree_built"
	KindTreeFailed    = "tree_failed"
	KindActiveQuery   = "active_query"
	KindRangeFallback = "range_fallback"
	KindChartReload   = "chart_reload"
)

// ErrNoRuns is returned by Latest when the directory holds no event files.
var ErrNoRuns = errors.New("telemetry: no runs recorded")

// Event represents a single telemetry record. Each event carries a timestamp,
// a kind tag, the run it belongs to, an optional dasha system, and arbitrary
// structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	System    string    `json:"system,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	runID string
	file  *os.File
	enc   *json.Encoder
	mu    sync.Mutex
	now   func() time.Time
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		runID: strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		file:  f,
		enc:   json.NewEncoder(f),
		now:   time.Now,
	}, nil
}

// NewRun creates dir if needed and opens a fresh event file named after a
// new random run ID.
func NewRun(dir string) (*Emitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create %s: %w", dir, err)
	}
	return NewEmitter(Path(dir, uuid.NewString()))
}

// Path returns the event file for runID under dir.
func Path(dir, runID string) string {
	return filepath.Join(dir, runID+".jsonl")
}

// RunID returns the identifier stamped on events recorded through Record.
func (e *Emitter) RunID() string {
	if e == nil {
		return ""
	}
	return e.runID
}

// Emit writes a single event to the JSONL file. It is safe for concurrent use.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record stamps an event with the current time and the emitter's run ID and
// writes it. Calling Record on a nil Emitter is a no-op.
func (e *Emitter) Record(kind, system string, data any) error {
	if e == nil {
		return nil
	}
	return e.Emit(Event{
		Timestamp: e.now().UTC(),
		Kind:      kind,
		RunID:     e.runID,
		System:    system,
		Data:      data,
	})
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// Latest returns the most recently modified event file in dir.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("telemetry: cannot read %s: %w", dir, err)
	}

	type candidate struct {
		name string
		mod  time.Time
	}
	var files []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: e.Name(), mod: info.ModTime()})
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoRuns, dir)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].mod.Equal(files[j].mod) {
			return files[i].name < files[j].name
		}
		return files[i].mod.Before(files[j].mod)
	})
	return filepath.Join(dir, files[len(files)-1].name), nil
}
