package recorder

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"LifeSupport/internal/logging"
	"LifeSupport/internal/model"
)

func sampleDay(day int) *DayEvent {
	return &DayEvent{
		RunID: "run-1",
		Record: model.DayRecord{
			Day:       day,
			Demand:    model.Demand{3, 9, 3, 1},
			Report:    model.Report{true, true, true, true},
			Before:    model.Stock{100, 100, 100, 100},
			After:     model.Stock{99, 91, 102, int64(108 + day)},
			FarmBonus: true,
		},
	}
}

func sampleRun() *RunEvent {
	return &RunEvent{
		RunID: "run-1", Residents: 3, Farms: 1, Days: 2,
		Initial:   model.Stock{100, 100, 100, 100},
		Final:     model.Stock{98, 82, 104, 118},
		StartedAt: time.Now(), FinishedAt: time.Now(),
	}
}

func TestSQLiteRecorder(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "habitat.db"), logging.Nop())
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	for day := 1; day <= 3; day++ {
		if err := r.RecordDay(sampleDay(day)); err != nil {
			t.Fatalf("RecordDay(%d): %v", day, err)
		}
	}
	if err := r.RecordRun(sampleRun()); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	n, err := r.DayCount("run-1")
	if err != nil {
		t.Fatalf("DayCount: %v", err)
	}
	if n != 3 {
		t.Errorf("day count = %d, want 3", n)
	}

	stock, day, err := r.LastStock("run-1")
	if err != nil {
		t.Fatalf("LastStock: %v", err)
	}
	if day != 3 || stock != (model.Stock{99, 91, 102, 111}) {
		t.Errorf("last stock = %v on day %d", stock, day)
	}

	if n, _ := r.DayCount("other"); n != 0 {
		t.Errorf("unexpected rows for other run: %d", n)
	}
}

func TestSQLiteRecorder_Verify(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "habitat.db"), logging.Nop())
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	for day := 1; day <= 2; day++ {
		if err := r.RecordDay(sampleDay(day)); err != nil {
			t.Fatalf("RecordDay(%d): %v", day, err)
		}
	}
	final := sampleDay(2).Record.After

	tests := []struct {
		name     string
		runID    string
		days     int
		final    model.Stock
		mismatch bool
	}{
		{"matching run", "run-1", 2, final, false},
		{"missing day", "run-1", 3, final, true},
		{"different final stock", "run-1", 2, model.Stock{1, 2, 3, 4}, true},
		{"empty run", "other", 0, model.Stock{}, false},
		{"nothing stored", "other", 1, final, true},
	}
	for _, tt := range tests {
		err := r.Verify(tt.runID, tt.days, tt.final)
		if tt.mismatch && !errors.Is(err, ErrHistoryMismatch) {
			t.Errorf("%s: expected ErrHistoryMismatch, got %v", tt.name, err)
		}
		if !tt.mismatch && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}

	m := Multi{NewNoopRecorder(), r}
	if err := m.Verify("run-1", 1, final); !errors.Is(err, ErrHistoryMismatch) {
		t.Errorf("Multi.Verify: expected ErrHistoryMismatch, got %v", err)
	}
	if err := m.Verify("run-1", 2, final); err != nil {
		t.Errorf("Multi.Verify: %v", err)
	}
}

func TestJSONLZstdRecorder(t *testing.T) {
	dir := t.TempDir()
	r, err := NewJSONLZstdRecorder(dir, "habitat", "run-1")
	if err != nil {
		t.Fatalf("NewJSONLZstdRecorder: %v", err)
	}
	if err := r.RecordDay(sampleDay(1)); err != nil {
		t.Fatalf("RecordDay: %v", err)
	}
	if err := r.RecordRun(sampleRun()); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.RecordDay(sampleDay(2)); err == nil {
		t.Error("expected error writing after close")
	}

	f, err := os.Open(filepath.Join(dir, "habitat-run-1.jsonl.zst"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var entries []jsonlEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e jsonlEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Type != "day_step" || entries[0].Day.Record.After[model.Water] != 91 {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Type != "run" || entries[1].Run.Final != (model.Stock{98, 82, 104, 118}) {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
}

var errSink = errors.New("sink down")

type failingRecorder struct{}

func (failingRecorder) RecordDay(*DayEvent) error { return errSink }
func (failingRecorder) RecordRun(*RunEvent) error { return nil }
func (failingRecorder) Close() error              { return nil }

func TestMulti(t *testing.T) {
	ok := NewNoopRecorder()
	m := Multi{ok, failingRecorder{}}
	if err := m.RecordDay(sampleDay(1)); !errors.Is(err, errSink) {
		t.Errorf("expected errSink, got %v", err)
	}
	if err := m.RecordRun(sampleRun()); err != nil {
		t.Errorf("RecordRun: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("expected distinct ids, got %q and %q", a, b)
	}
}
