package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVStore appends records to a CSV file. The header is written once when the
// file is created (or empty); every Append is flushed and fsynced so a crash
// between tasks loses nothing already recorded.
type CSVStore struct {
	path string
	f    *os.File
	w    *csv.Writer
}

// OpenCSV opens or creates the CSV store at path, creating parent
// directories as needed.
func OpenCSV(path string) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create results dir: %w", err)
		}
	}

	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("store: stat %q: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}

	s := &CSVStore{path: path, f: f, w: csv.NewWriter(f)}
	if fresh {
		if err := s.writeRow(header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("store: write header: %w", err)
		}
	}
	return s, nil
}

// Path returns the file the store writes to.
func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) writeRow(row []string) error {
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	return s.f.Sync()
}

// Append writes one record and forces it to disk before returning.
func (s *CSVStore) Append(rec Record) error {
	if err := s.writeRow(rec.row()); err != nil {
		return fmt.Errorf("store: append to %q: %w", s.path, err)
	}
	return nil
}

// Load reads every record back from the file, skipping the header.
func (s *CSVStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q for read: %w", s.path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func (s *CSVStore) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("store: flush %q: %w", s.path, err)
	}
	return s.f.Close()
}

// ReadCSV parses records from CSV content with the standard header. Rows
// that do not fit the schema are skipped.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate short rows from truncated writes

	var out []Record
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: read csv: %w", err)
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == header[0] {
				continue
			}
		}
		if rec, ok := fromRow(row); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
