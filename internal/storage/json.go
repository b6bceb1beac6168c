package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"remindme/internal/reminder"
)

// JSONFile stores reminders as one indented JSON array.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) (*JSONFile, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: store path is empty", reminder.ErrPersistence)
	}
	return &JSONFile{path: path}, nil
}

func (f *JSONFile) Path() string {
	return f.path
}

func (f *JSONFile) Close() error {
	return nil
}

// Load treats a missing or blank file as an empty collection.
func (f *JSONFile) Load() ([]reminder.Reminder, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", reminder.ErrPersistence, f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", reminder.ErrPersistence, f.path, err)
	}
	out := make([]reminder.Reminder, 0, len(records))
	for _, rec := range records {
		r, err := rec.reminder()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", reminder.ErrPersistence, f.path, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Encode renders reminders in the store file format.
func Encode(rs []reminder.Reminder) ([]byte, error) {
	records := make([]record, 0, len(rs))
	for _, r := range rs {
		records = append(records, toRecord(r))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode reminders: %w", reminder.ErrPersistence, err)
	}
	return append(data, '\n'), nil
}

// Save writes a sibling temp file and renames it over the store.
func (f *JSONFile) Save(rs []reminder.Reminder) error {
	data, err := Encode(rs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", reminder.ErrPersistence, dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", reminder.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: write %s: %w", reminder.ErrPersistence, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: sync %s: %w", reminder.ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %w", reminder.ErrPersistence, tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %w", reminder.ErrPersistence, f.path, err)
	}
	return nil
}
