// Package backup exports and restores the persisted timesheet as a single
// JSON document.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"devtimesheet/internal/archive"
	"devtimesheet/internal/entry"
)

// Snapshot is the backup document shape: the full entry collection plus the
// archived project names.
type Snapshot struct {
	Entries  []entry.TimeEntry `json:"entries"`
	Archived []string          `json:"archived"`
}

// Filename returns the default backup filename for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("backup_timesheet_%s.json", now.Format("2006-01-02"))
}

// Write serializes a snapshot of the store and registry to path.
func Write(path string, store *entry.Store, reg *archive.Registry) error {
	snap := Snapshot{
		Entries:  store.ListAll(),
		Archived: reg.Projects(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Parse decodes a backup document. It accepts the full {entries, archived}
// shape or the legacy bare array of entries; anything else is a validation
// error. Legacy documents restore with an empty archive list.
func Parse(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err == nil && snap.Entries != nil {
		if snap.Archived == nil {
			snap.Archived = []string{}
		}
		normalize(&snap)
		return snap, nil
	}

	var legacy []entry.TimeEntry
	if err := json.Unmarshal(data, &legacy); err == nil {
		snap = Snapshot{Entries: legacy, Archived: []string{}}
		normalize(&snap)
		return snap, nil
	}

	return Snapshot{}, &entry.ValidationError{Msg: "not a recognized backup document"}
}

// ReadFile loads and parses a backup document from disk.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	return Parse(data)
}

// Restore replaces the persisted entries and archive list with the snapshot
// contents. The caller gates this behind user confirmation.
func Restore(snap Snapshot, store *entry.Store, reg *archive.Registry) error {
	if err := store.Replace(snap.Entries); err != nil {
		return err
	}
	return reg.Replace(snap.Archived)
}

func normalize(snap *Snapshot) {
	for i := range snap.Entries {
		snap.Entries[i].Normalize()
	}
}
