package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptListsScoresAndAttendance(t *testing.T) {
	prompt := BuildPrompt("Sidharth Kumar",
		[]Score{{Subject: "Mathematics", MarksObtained: 85, TotalMarks: 100, Date: "2023-09-25"}, {Subject: "Physics", MarksObtained: 7.5, TotalMarks: 10, Date: "2023-10-01"}},
		[]Mark{{Date: "2023-10-01", Status: "PRESENT"}, {Date: "2023-10-03", Status: "ABSENT"}},
	)

	assert.Contains(t, prompt, "student: Sidharth Kumar.")
	assert.Contains(t, prompt, "Mathematics: 85/100 (2023-09-25)")
	assert.Contains(t, prompt, "Physics: 7.5/10 (2023-10-01)")
	assert.Contains(t, prompt, "2023-10-03: ABSENT")
	assert.Contains(t, prompt, "Limit the response to 150 words.")
}

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "  ", "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
