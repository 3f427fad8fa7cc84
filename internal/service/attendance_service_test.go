package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

func TestToggleTwiceRestoresStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewAttendanceService(newGateway(t), nil, nil)

	cases := []struct {
		studentID string
		date      string
	}{
		{"s1", "2023-10-01"},
		{"s1", "2023-10-03"},
	}
	for _, tc := range cases {
		before, err := svc.StatusFor(ctx, teacher, tc.studentID, tc.date)
		require.NoError(t, err)

		_, err = svc.Toggle(ctx, teacher, models.ToggleAttendanceRequest{StudentID: tc.studentID, Date: tc.date})
		require.NoError(t, err)
		mid, err := svc.StatusFor(ctx, teacher, tc.studentID, tc.date)
		require.NoError(t, err)
		assert.NotEqual(t, before, mid)

		_, err = svc.Toggle(ctx, teacher, models.ToggleAttendanceRequest{StudentID: tc.studentID, Date: tc.date})
		require.NoError(t, err)
		after, err := svc.StatusFor(ctx, teacher, tc.studentID, tc.date)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
}

func TestToggleCreatesPresentRecord(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	svc := NewAttendanceService(g, nil, nil)

	status, err := svc.StatusFor(ctx, teacher, "s2", "2023-10-09")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceNotMarked, status)

	rec, err := svc.Toggle(ctx, teacher, models.ToggleAttendanceRequest{StudentID: "s2", Date: "2023-10-09"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.True(t, strings.HasPrefix(rec.ID, "att-"))

	records, err := g.Attendance().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestToggleTreatsLateAsNotPresent(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	require.NoError(t, g.Attendance().Save(ctx, []models.AttendanceRecord{
		{ID: "a1", StudentID: "s3", Date: "2023-10-02", Status: models.AttendanceLate},
	}))
	svc := NewAttendanceService(g, nil, nil)

	rec, err := svc.Toggle(ctx, teacher, models.ToggleAttendanceRequest{StudentID: "s3", Date: "2023-10-02"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.Equal(t, "a1", rec.ID)
}

func TestToggleUsesFirstDuplicate(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	require.NoError(t, g.Attendance().Save(ctx, []models.AttendanceRecord{
		{ID: "first", StudentID: "s1", Date: "2023-10-02", Status: models.AttendancePresent},
		{ID: "second", StudentID: "s1", Date: "2023-10-02", Status: models.AttendancePresent},
	}))
	svc := NewAttendanceService(g, nil, nil)

	rec, err := svc.Toggle(ctx, teacher, models.ToggleAttendanceRequest{StudentID: "s1", Date: "2023-10-02"})
	require.NoError(t, err)
	assert.Equal(t, "first", rec.ID)

	records, err := g.Attendance().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceAbsent, records[0].Status)
	assert.Equal(t, models.AttendancePresent, records[1].Status)
}

func TestToggleRequiresTeacher(t *testing.T) {
	svc := NewAttendanceService(newGateway(t), nil, nil)
	_, err := svc.Toggle(context.Background(), student, models.ToggleAttendanceRequest{StudentID: "s1", Date: "2023-10-02"})
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestToggleRejectsBadDate(t *testing.T) {
	svc := NewAttendanceService(newGateway(t), nil, nil)
	_, err := svc.Toggle(context.Background(), teacher, models.ToggleAttendanceRequest{StudentID: "s1", Date: "02/10/2023"})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestToggleNotifiesChange(t *testing.T) {
	svc := NewAttendanceService(newGateway(t), nil, nil)
	var changed string
	svc.OnChange(func(_ context.Context, id string) { changed = id })

	_, err := svc.Toggle(context.Background(), teacher, models.ToggleAttendanceRequest{StudentID: "s3", Date: "2023-10-02"})
	require.NoError(t, err)
	assert.Equal(t, "s3", changed)
}

func TestStudentListsOnlyOwnAttendance(t *testing.T) {
	ctx := context.Background()
	svc := NewAttendanceService(newGateway(t), nil, nil)
	_, err := svc.Toggle(ctx, teacher, models.ToggleAttendanceRequest{StudentID: "s2", Date: "2023-10-02"})
	require.NoError(t, err)

	records, err := svc.List(ctx, student, models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 4)
	for _, r := range records {
		assert.Equal(t, "s1", r.StudentID)
	}

	_, err = svc.List(ctx, student, models.AttendanceFilter{StudentID: "s2"})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	all, err := svc.List(ctx, teacher, models.AttendanceFilter{Date: "2023-10-02"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRollListsEveryStudent(t *testing.T) {
	svc := NewAttendanceService(newGateway(t), nil, nil)
	roll, err := svc.Roll(context.Background(), teacher, "2023-10-03")
	require.NoError(t, err)
	require.Len(t, roll, 3)
	assert.Equal(t, models.AttendanceAbsent, roll[0].Status)
	assert.Equal(t, models.AttendanceNotMarked, roll[1].Status)
}

func TestAttendanceRate(t *testing.T) {
	records := []models.AttendanceRecord{
		{StudentID: "s1", Status: models.AttendancePresent},
		{StudentID: "s1", Status: models.AttendancePresent},
		{StudentID: "s1", Status: models.AttendanceAbsent},
		{StudentID: "s2", Status: models.AttendanceLate},
	}
	assert.Equal(t, 67, AttendanceRate(records, "s1"))
	assert.Equal(t, 0, AttendanceRate(records, "s2"))
	assert.Equal(t, 0, AttendanceRate(records, "s9"))
	assert.Equal(t, 50, AttendanceRate(records, ""))
}
