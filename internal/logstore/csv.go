package logstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
)

// CSVStore keeps the log in a flat UTF-8 CSV file.  Appends are a single
// write on a file opened with O_APPEND, so concurrent submissions from
// separate processes interleave at row granularity instead of corrupting
// each other with read-modify-write cycles.  Beyond that there is no
// locking; the deployment assumption is a handful of manual submissions per
// minute.
type CSVStore struct {
	Path string
}

// NewCSVStore returns a store writing to path.  The file is created lazily
// on the first append.
func NewCSVStore(path string) *CSVStore { return &CSVStore{Path: path} }

// Append writes one record at the end of the file.  When the file does not
// exist yet, the header row is emitted in the same write as the record.
func (s *CSVStore) Append(_ context.Context, rec model.AttendanceRecord) error {
	_, statErr := os.Stat(s.Path)
	newFile := os.IsNotExist(statErr)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if newFile {
		if err := w.Write(model.LogColumns); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}
	if err := w.Write(rec.Fields()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

// ReadAll parses the file into records, skipping the header.  A missing
// file is simply an empty log.
func (s *CSVStore) ReadAll(_ context.Context) ([]model.AttendanceRecord, error) {
	raw, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return []model.AttendanceRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return []model.AttendanceRecord{}, nil
	}

	recs := make([]model.AttendanceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(i int) string {
			if i < len(row) {
				return row[i]
			}
			return ""
		}
		recs = append(recs, model.AttendanceRecord{
			TimestampISO: cell(0),
			Date:         cell(1),
			Time:         cell(2),
			FullName:     cell(3),
			PhoneLast4:   cell(4),
			EmployeeID:   cell(5),
			TraineeID:    cell(6),
		})
	}
	return recs, nil
}

// Clear deletes the log file.  Deleting a file that is not there is fine.
func (s *CSVStore) Clear(_ context.Context) error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportCSV returns the file's bytes verbatim; a missing file exports as a
// header-only CSV so the download is always well formed.
func (s *CSVStore) ExportCSV(_ context.Context) ([]byte, error) {
	raw, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(model.LogColumns); err != nil {
			return nil, err
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
