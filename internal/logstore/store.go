// Package logstore provides the durable, append-only meal log.  The default
// backend is a flat CSV file; a MySQL backend implements the same contract
// for deployments that outgrow the file.
package logstore

import (
	"context"
	"errors"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
)

// ErrWriteFailure wraps any failure to durably append a record.  It is
// surfaced verbatim to the caller; there is no retry and no partial record
// is ever considered valid.
var ErrWriteFailure = errors.New("log write failed")

// Store is the contract every log backend satisfies.  Append is the only
// mutating operation besides Clear; rows are never edited or individually
// removed.
type Store interface {
	// Append durably writes one record at the end of the log, creating
	// the log (with its header) if it does not exist yet.
	Append(ctx context.Context, rec model.AttendanceRecord) error
	// ReadAll returns every record in append order.  A missing or empty
	// log yields an empty slice, not an error.
	ReadAll(ctx context.Context) ([]model.AttendanceRecord, error)
	// Clear removes the entire log.  Clearing a missing or already-empty
	// log is a no-op.
	Clear(ctx context.Context) error
	// ExportCSV renders the full log, header included, as UTF-8 CSV
	// bytes suitable for a verbatim download.
	ExportCSV(ctx context.Context) ([]byte, error)
}
