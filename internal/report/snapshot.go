// Package report renders simulation results and stores stock snapshots.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"LifeSupport/internal/model"
)

// Snapshot is the persisted state needed to resume a habitat.
type Snapshot struct {
	Day       int         `json:"day"`
	Residents int         `json:"residents"`
	Farms     int         `json:"farms"`
	Stock     model.Stock `json:"stock"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// LoadSnapshot reads a snapshot file. It returns nil without error when the
// file does not exist.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// SaveSnapshot writes snap to path, replacing any previous file.
func SaveSnapshot(path string, snap *Snapshot) error {
	snap.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}
