package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
)

func TestTeacherDashboard(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	require.NoError(t, g.Payments().Save(ctx, []models.PaymentRecord{
		{ID: "p9", StudentID: "s2", Amount: 5000, Date: "2023-10-12", Status: models.PaymentPending},
		{ID: "p2", StudentID: "s1", Amount: 5000, Date: "2023-10-01", Status: models.PaymentSuccess},
	}))
	svc := NewDashboardService(g, PaymentConfig{}, nil)
	svc.now = fixedClock(2023, time.October, 15)

	dash, err := svc.Get(ctx, teacher)
	require.NoError(t, err)
	require.NotNil(t, dash.Teacher)
	assert.Nil(t, dash.Student)
	assert.Equal(t, 3, dash.Teacher.TotalStudents)
	assert.Equal(t, 75, dash.Teacher.AttendanceRate)
	assert.Equal(t, 85, dash.Teacher.AverageScore)
	require.Len(t, dash.Teacher.PendingPayments, 1)
	assert.Equal(t, "p9", dash.Teacher.PendingPayments[0].ID)
	assert.Equal(t, 1, dash.Teacher.DelinquentCount)
	assert.Len(t, dash.Teacher.Announcements, 3)
}

func TestStudentDashboard(t *testing.T) {
	ctx := context.Background()
	svc := NewDashboardService(newGateway(t), PaymentConfig{StudentTarget: 60000}, nil)
	svc.now = fixedClock(2023, time.November, 2)

	dash, err := svc.Get(ctx, student)
	require.NoError(t, err)
	require.NotNil(t, dash.Student)
	assert.Equal(t, models.RoleStudent, dash.Role)
	assert.Equal(t, "Sidharth Kumar", dash.Student.Student.Name)
	assert.Equal(t, 75, dash.Student.AttendanceRate)
	assert.True(t, dash.Student.HasPendingDues)
	assert.InDelta(t, 10000.0/60000*100, dash.Student.FeeProgress, 0.0001)
	assert.Empty(t, dash.Student.PendingPayments)
	assert.Len(t, dash.Student.Schedule, 3)
}
