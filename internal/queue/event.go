// Package queue defines message payloads exchanged over the message broker.
package queue

// AttendanceRecordedEvent is published after a record is durably appended to
// the meal log.  It carries enough information for downstream consumers to
// build meal counts or notifications without reading the log file.
type AttendanceRecordedEvent struct {
	FullName   string `json:"full_name"`
	PhoneLast4 string `json:"phone_last4"`
	EmployeeID string `json:"employee_id"`
	TraineeID  string `json:"trainee_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	RecordedAt string `json:"recorded_at"`
}
