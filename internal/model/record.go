package model

// AttendanceRecord is one row of the meal log.  All fields are plain strings
// so a record round-trips through the CSV store byte for byte.  The three
// time fields are derived from a single clock reading at the moment of
// marking: TimestampISO carries the full offset timestamp, Date and Time are
// its YYYY-MM-DD and HH:MM:SS projections.
//
// A record is created exactly once per confirmed match and is immutable once
// written; the only destructive operation on the log is the admin full clear.
type AttendanceRecord struct {
	TimestampISO string `json:"timestamp_iso"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	FullName     string `json:"full_name"`
	PhoneLast4   string `json:"phone_last4"`
	EmployeeID   string `json:"employee_id"`
	TraineeID    string `json:"trainee_id"`
}

// LogColumns is the header row of the log store, in write order.  The CSV
// file and the MySQL export both render exactly these seven columns.
var LogColumns = []string{"TimestampISO", "Date", "Time", "FullName", "PhoneLast4", "EmployeeID", "TraineeID"}

// Fields returns the record's values in LogColumns order.
func (r AttendanceRecord) Fields() []string {
	return []string{r.TimestampISO, r.Date, r.Time, r.FullName, r.PhoneLast4, r.EmployeeID, r.TraineeID}
}
