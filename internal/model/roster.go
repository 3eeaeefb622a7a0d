package model

// RosterEntry is one normalized row of the master trainee list.  The raw
// sheet only guarantees FullName and Phone; every other identifier column
// is synthesized as an empty string when the source omits it, so downstream
// code never has to branch on column presence.
//
// Fields:
//
//	FullName     – name exactly as it appears in the sheet (may be blank).
//	FullNameNorm – trimmed, lower-cased name used as a secondary comparison key.
//	PhoneDigits  – the phone value with every non-digit character removed.
//	PhoneLast4   – last 4 characters of PhoneDigits, or all of it if shorter.
//	EmployeeID   – optional employee identifier.
//	TraineeID    – optional trainee identifier.
//	BatchStart   – optional batch start marker.
//	BatchEnd     – optional batch end marker.
type RosterEntry struct {
	FullName     string `json:"full_name"`
	FullNameNorm string `json:"full_name_norm"`
	PhoneDigits  string `json:"phone_digits"`
	PhoneLast4   string `json:"phone_last4"`
	EmployeeID   string `json:"employee_id"`
	TraineeID    string `json:"trainee_id"`
	BatchStart   string `json:"batch_start"`
	BatchEnd     string `json:"batch_end"`
}

// Roster is the ordered, fully rebuilt view of the master list for one load
// cycle.  It is a cached projection of the remote sheet, never the source of
// truth, and carries no uniqueness constraint on PhoneLast4 — collisions are
// resolved at match time.
type Roster []RosterEntry

// Diagnostics summarizes data quality of a loaded roster.  The numbers are
// recomputed on every load and shown on the status surface; they never block
// attendance marking.
type Diagnostics struct {
	RowCount        int `json:"row_count"`
	BlankNames      int `json:"blank_names"`
	ShortPhones     int `json:"short_phones"`
	Last4Collisions int `json:"last4_collisions"`
}
