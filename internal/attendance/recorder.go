// Package attendance resolves a submitted phone fragment against the loaded
// roster and records confirmed matches in the meal log.  Resolution is a
// pure function of (roster, fragment); the only side effect in the package
// is the log append performed by Recorder.Mark.
package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/logstore"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/roster"
)

// ErrInvalidFragment is returned when the submitted fragment has fewer than
// 4 digits after stripping.  Terminal per submission, nothing is written.
var ErrInvalidFragment = errors.New("fragment must contain 4 digits")

// ErrNoMatch is returned when no roster entry shares the normalized
// fragment.  Terminal per submission.
var ErrNoMatch = errors.New("no roster entry matches fragment")

// ErrSelectionOutOfRange is returned when a disambiguation selection index
// does not point at a current candidate.
var ErrSelectionOutOfRange = errors.New("selection index out of range")

// ErrSelectionStale is returned when the roster changed between candidate
// display and selection and the chosen candidate no longer exists.  The
// caller must resubmit against the fresh roster.
var ErrSelectionStale = errors.New("selected candidate no longer in roster")

// State names the terminal resolution outcomes exposed to callers.
type State string

const (
	// StateConfirmed means exactly one entry matched and marking can
	// proceed without further input.
	StateConfirmed State = "CONFIRMED"
	// StateAmbiguous means several entries share the fragment and the
	// caller must select one.  Not an error; a pending state with no
	// timeout.
	StateAmbiguous State = "AMBIGUOUS_SELECTION_REQUIRED"
)

// Outcome is the result of resolving a fragment.  Entry is set only when
// State is StateConfirmed; Candidates only when StateAmbiguous, in roster
// order.
type Outcome struct {
	State      State
	Fragment   string
	Entry      model.RosterEntry
	Candidates []model.RosterEntry
}

// NormalizeFragment strips the input to digits and keeps the last 4.  It
// rejects anything that leaves fewer than 4 digits.  Applying it to its own
// output returns the same value.
func NormalizeFragment(raw string) (string, error) {
	digits := roster.DigitsOnly(raw)
	frag := roster.Last4(digits)
	if len(frag) < 4 {
		return "", ErrInvalidFragment
	}
	return frag, nil
}

// Match filters entries whose PhoneLast4 equals frag, preserving roster
// order.  Exact string equality only; no fuzzy matching.
func Match(r model.Roster, frag string) []model.RosterEntry {
	var out []model.RosterEntry
	for _, e := range r {
		if e.PhoneLast4 == frag {
			out = append(out, e)
		}
	}
	return out
}

// Resolve normalizes raw and matches it against r.  Zero matches and short
// fragments come back as ErrNoMatch / ErrInvalidFragment; one match is
// Confirmed; several are Ambiguous with the full candidate list.
func Resolve(r model.Roster, raw string) (Outcome, error) {
	frag, err := NormalizeFragment(raw)
	if err != nil {
		return Outcome{}, err
	}
	matches := Match(r, frag)
	switch len(matches) {
	case 0:
		return Outcome{}, ErrNoMatch
	case 1:
		return Outcome{State: StateConfirmed, Fragment: frag, Entry: matches[0]}, nil
	default:
		return Outcome{State: StateAmbiguous, Fragment: frag, Candidates: matches}, nil
	}
}

// SelectCandidate re-resolves raw against the current roster and picks the
// candidate at index.  Because the roster may have been reloaded between
// candidate display and selection, the caller passes the name and digits it
// showed the user; a mismatch means the list shifted underneath them and
// nothing is written.
func SelectCandidate(r model.Roster, raw string, index int, wantName, wantLast4 string) (model.RosterEntry, error) {
	frag, err := NormalizeFragment(raw)
	if err != nil {
		return model.RosterEntry{}, err
	}
	matches := Match(r, frag)
	if len(matches) == 0 {
		return model.RosterEntry{}, ErrNoMatch
	}
	if index < 0 || index >= len(matches) {
		return model.RosterEntry{}, ErrSelectionOutOfRange
	}
	picked := matches[index]
	if picked.FullName != wantName || picked.PhoneLast4 != wantLast4 {
		return model.RosterEntry{}, ErrSelectionStale
	}
	return picked, nil
}

// IST is the fixed log timezone: UTC+5:30, no daylight adjustment.
var IST = time.FixedZone("IST", 5*3600+30*60)

// Recorder turns a confirmed roster entry into a durable log row.  Now is
// swappable for tests and defaults to the wall clock.
type Recorder struct {
	Store logstore.Store
	Now   func() time.Time
}

func NewRecorder(store logstore.Store) *Recorder {
	return &Recorder{Store: store, Now: time.Now}
}

// Mark builds a record from entry at the current IST instant and appends it
// to the store.  Append failures propagate verbatim; no retry, and the
// failed record is not considered written.
func (rec *Recorder) Mark(ctx context.Context, entry model.RosterEntry) (model.AttendanceRecord, error) {
	now := rec.Now().In(IST)
	r := model.AttendanceRecord{
		TimestampISO: now.Format(time.RFC3339),
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		FullName:     entry.FullName,
		PhoneLast4:   entry.PhoneLast4,
		EmployeeID:   entry.EmployeeID,
		TraineeID:    entry.TraineeID,
	}
	if err := rec.Store.Append(ctx, r); err != nil {
		return model.AttendanceRecord{}, err
	}
	return r, nil
}

// Today returns records whose Date equals today's IST date, keeping the
// most recent limit rows (append order within the result).  limit <= 0
// means no cap.
func (rec *Recorder) Today(ctx context.Context, limit int) ([]model.AttendanceRecord, error) {
	all, err := rec.Store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	today := rec.Now().In(IST).Format("2006-01-02")
	var out []model.AttendanceRecord
	for _, r := range all {
		if r.Date == today {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	if out == nil {
		out = []model.AttendanceRecord{}
	}
	return out, nil
}
