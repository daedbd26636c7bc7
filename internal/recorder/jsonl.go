package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstdRecorder appends events as zstd-compressed JSON lines, one file
// per run.
type JSONLZstdRecorder struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

type jsonlEntry struct {
	Type string    `json:"type"`
	Day  *DayEvent `json:"day_step,omitempty"`
	Run  *RunEvent `json:"run,omitempty"`
}

// NewJSONLZstdRecorder creates <dir>/<prefix>-<runID>.jsonl.zst.
func NewJSONLZstdRecorder(dir, prefix, runID string) (*JSONLZstdRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl.zst", prefix, runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &JSONLZstdRecorder{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Path returns the file being written.
func (r *JSONLZstdRecorder) Path() string { return r.path }

func (r *JSONLZstdRecorder) RecordDay(evt *DayEvent) error {
	return r.write(jsonlEntry{Type: "day_step", Day: evt})
}

func (r *JSONLZstdRecorder) RecordRun(evt *RunEvent) error {
	return r.write(jsonlEntry{Type: "run", Run: evt})
}

func (r *JSONLZstdRecorder) write(v jsonlEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return fmt.Errorf("history file %s is closed", r.path)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

func (r *JSONLZstdRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return nil
	}
	var err1 error
	if err := r.w.Flush(); err != nil {
		err1 = err
	}
	if err := r.enc.Close(); err != nil && err1 == nil {
		err1 = err
	}
	if err := r.f.Close(); err != nil && err1 == nil {
		err1 = err
	}
	r.w, r.enc, r.f = nil, nil, nil
	return err1
}
