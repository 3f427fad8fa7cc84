package insight

import (
	"fmt"
	"strings"
)

// Score is one test result included in a prompt.
type Score struct {
	Subject       string
	MarksObtained float64
	TotalMarks    float64
	Date          string
}

// Mark is one attendance entry included in a prompt.
type Mark struct {
	Date   string
	Status string
}

// BuildPrompt asks for a short encouraging progress summary of the student.
func BuildPrompt(studentName string, scores []Score, marks []Mark) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following performance data for student: %s.\n\n", studentName)

	b.WriteString("Test Scores:\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "%s: %s/%s (%s)\n", s.Subject, formatMarks(s.MarksObtained), formatMarks(s.TotalMarks), s.Date)
	}

	b.WriteString("\nAttendance History:\n")
	for _, m := range marks {
		fmt.Fprintf(&b, "%s: %s\n", m.Date, m.Status)
	}

	b.WriteString("\nProvide a professional but encouraging summary of the student's progress, " +
		"highlighting strengths and areas for improvement.\nLimit the response to 150 words.\n")
	return b.String()
}

func formatMarks(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
