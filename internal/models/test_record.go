package models

// TestRecord is an immutable score entry.
type TestRecord struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"studentId"`
	Subject       string  `json:"subject"`
	Date          string  `json:"date"`
	MarksObtained float64 `json:"marksObtained"`
	TotalMarks    float64 `json:"totalMarks"`
	Grade         string  `json:"grade"`
}

// AddTestResultRequest is the payload for recording a score.
type AddTestResultRequest struct {
	StudentID     string  `json:"studentId" validate:"required"`
	Subject       string  `json:"subject" validate:"required"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	MarksObtained float64 `json:"marksObtained" validate:"gte=0"`
	TotalMarks    float64 `json:"totalMarks" validate:"gt=0"`
	Grade         string  `json:"grade" validate:"required"`
}

// TestResultView adds the display percentage to a record.
type TestResultView struct {
	TestRecord
	Percentage int `json:"percentage"`
}
