package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmunix/cinetrack/internal/media"
)

// Medium is the durable mirror of the catalog. It is read and written whole.
type Medium interface {
	Load() ([]media.Record, error)
	Save(records []media.Record) error
}

// FileMedium stores the catalog as an indented JSON array.
type FileMedium struct {
	path string
}

// NewFileMedium returns a medium backed by the JSON file at path.
func NewFileMedium(path string) *FileMedium {
	return &FileMedium{path: path}
}

// Path returns the snapshot file location.
func (f *FileMedium) Path() string {
	return f.path
}

// Load reads every record from the snapshot file.
// A missing file is reported as an error wrapping os.ErrNotExist.
func (f *FileMedium) Load() ([]media.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var records []media.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", f.path, err)
	}
	return records, nil
}

// Save replaces the snapshot file. The write goes to a temp file in the same
// directory followed by a rename, so a crash never leaves a truncated catalog.
func (f *FileMedium) Save(records []media.Record) error {
	if records == nil {
		records = []media.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
