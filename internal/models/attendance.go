package models

// AttendanceStatus is the recorded presence of a student on a day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	// AttendanceNotMarked is returned by lookups when no record exists. It is never persisted.
	AttendanceNotMarked AttendanceStatus = "NOT_MARKED"
)

// AttendanceRecord marks one student on one day.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	StudentID string
	Date      string
}

// ToggleAttendanceRequest flips a student's status for a day.
type ToggleAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// RollEntry is one row of the daily attendance sheet.
type RollEntry struct {
	Student User             `json:"student"`
	Status  AttendanceStatus `json:"status"`
}
