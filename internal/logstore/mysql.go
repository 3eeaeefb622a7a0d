package logstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
)

// MySQLStore keeps the log in a meal_log table instead of a flat file.  It
// satisfies the same append-only contract as CSVStore; the database's own
// write path replaces the O_APPEND guarantee.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{DB: db} }

// Append inserts one row.  Insert order is preserved by the auto-increment
// id, which ReadAll orders by.
func (s *MySQLStore) Append(ctx context.Context, rec model.AttendanceRecord) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO meal_log (timestamp_iso, log_date, log_time, full_name, phone_last4, employee_id, trainee_id)
		 VALUES (?,?,?,?,?,?,?)`,
		rec.TimestampISO, rec.Date, rec.Time, rec.FullName, rec.PhoneLast4, rec.EmployeeID, rec.TraineeID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

// ReadAll returns every row in append order.
func (s *MySQLStore) ReadAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT timestamp_iso, log_date, log_time, full_name, phone_last4, employee_id, trainee_id
		 FROM meal_log ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.AttendanceRecord{}
	for rows.Next() {
		var r model.AttendanceRecord
		if err := rows.Scan(&r.TimestampISO, &r.Date, &r.Time, &r.FullName, &r.PhoneLast4, &r.EmployeeID, &r.TraineeID); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Clear wipes the table.  Running it against an already-empty table is a
// no-op.
func (s *MySQLStore) Clear(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM meal_log`)
	return err
}

// ExportCSV renders the table as the same seven-column CSV the file store
// produces.
func (s *MySQLStore) ExportCSV(ctx context.Context) ([]byte, error) {
	recs, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(model.LogColumns); err != nil {
		return nil, err
	}
	for _, r := range recs {
		if err := w.Write(r.Fields()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
