// Package roster fetches the master trainee list from its CSV export URL and
// normalizes it into the in-memory view the rest of the application matches
// against.  Every failure mode degrades to an empty roster plus a sentinel
// error; loading never panics and never returns a partially normalized list.
package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
)

// Required header columns, case-sensitive, matching the sheet template.
const (
	ColFullName = "FullName"
	ColPhone    = "Phone"
)

// Optional identifier columns.  Any of these missing from the source is
// synthesized as an empty string for every row, so the roster always has a
// fixed shape.
var optionalCols = []string{"EmployeeID", "TraineeID", "BatchStart", "BatchEnd"}

// ErrConfigurationMissing is returned when no source URL is configured at
// all.  Handlers should translate this into a blocking "set the sheet URL"
// notice rather than an internal error.
var ErrConfigurationMissing = errors.New("no roster source configured")

// ErrSourceUnavailable is returned (wrapped, with the underlying cause) when
// the sheet cannot be fetched or its body cannot be parsed as CSV.  The next
// load simply retries; nothing is cached across failures.
var ErrSourceUnavailable = errors.New("roster source unavailable")

// SchemaError reports that the sheet is reachable but its header row lacks
// required columns.  It unwraps to ErrSchemaInvalid so callers can match it
// with errors.Is while still reading the missing column names.
type SchemaError struct {
	Missing []string
}

var ErrSchemaInvalid = errors.New("roster schema invalid")

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster schema invalid: missing columns %v", e.Missing)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaInvalid }

// Loader fetches and normalizes rosters.  The embedded HTTP client carries
// an explicit timeout so a hanging sheet endpoint cannot block a session's
// load indefinitely.
type Loader struct {
	client *http.Client
}

// New returns a Loader whose fetches are bounded by the given timeout.  A
// zero or negative timeout falls back to 15 seconds.
func New(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load fetches the sheet at source and returns the normalized roster plus
// its diagnostics.  The roster is rebuilt from scratch on every call — there
// is no incremental diff and no caching inside the loader, so re-running it
// against unchanged source data yields an identical roster.
//
// On any failure the returned roster is empty, diagnostics are zero and the
// error is one of ErrConfigurationMissing, ErrSourceUnavailable (wrapping
// the cause) or a *SchemaError.
func (l *Loader) Load(ctx context.Context, source string) (model.Roster, model.Diagnostics, error) {
	if strings.TrimSpace(source) == "" {
		return model.Roster{}, model.Diagnostics{}, ErrConfigurationMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return model.Roster{}, model.Diagnostics{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return model.Roster{}, model.Diagnostics{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Roster{}, model.Diagnostics{}, fmt.Errorf("%w: unexpected status %s", ErrSourceUnavailable, resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1 // sheets export ragged rows; short rows are padded below
	rows, err := r.ReadAll()
	if err != nil {
		return model.Roster{}, model.Diagnostics{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return Normalize(rows)
}

// Normalize turns raw CSV rows (header first) into a roster.  It is split
// out from Load so the same procedure can be exercised without a network
// round trip.  All cell values are treated as text; a missing cell is an
// empty string, nothing is coerced.
func Normalize(rows [][]string) (model.Roster, model.Diagnostics, error) {
	if len(rows) == 0 {
		return model.Roster{}, model.Diagnostics{}, &SchemaError{Missing: []string{ColFullName, ColPhone}}
	}

	idx := map[string]int{}
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range []string{ColFullName, ColPhone} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return model.Roster{}, model.Diagnostics{}, &SchemaError{Missing: missing}
	}

	roster := make(model.Roster, 0, len(rows)-1)
	last4Count := map[string]int{}
	var diag model.Diagnostics

	for _, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		digits := DigitsOnly(cell(ColPhone))
		e := model.RosterEntry{
			FullName:     cell(ColFullName),
			FullNameNorm: strings.ToLower(strings.TrimSpace(cell(ColFullName))),
			PhoneDigits:  digits,
			PhoneLast4:   Last4(digits),
			EmployeeID:   cell(optionalCols[0]),
			TraineeID:    cell(optionalCols[1]),
			BatchStart:   cell(optionalCols[2]),
			BatchEnd:     cell(optionalCols[3]),
		}
		roster = append(roster, e)

		if e.FullNameNorm == "" {
			diag.BlankNames++
		}
		if len(e.PhoneDigits) < 4 {
			diag.ShortPhones++
		}
		last4Count[e.PhoneLast4]++
	}

	diag.RowCount = len(roster)
	for _, n := range last4Count {
		if n > 1 {
			diag.Last4Collisions++
		}
	}
	return roster, diag, nil
}

// DigitsOnly strips everything but ASCII digits from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Last4 returns the last 4 characters of a digits-only string, or the whole
// string when it is shorter than 4.
func Last4(digits string) string {
	if len(digits) >= 4 {
		return digits[len(digits)-4:]
	}
	return digits
}
