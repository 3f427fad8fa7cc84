package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/jobs"
)

type recordingQueue struct {
	jobs []jobs.Job
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func TestReminderToOneStudent(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	svc := NewReminderService(g, nil, nil)

	result, err := svc.Send(ctx, teacher, models.ReminderRequest{StudentID: "s2", Month: "2023-10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, result.Students)
	assert.False(t, result.Queued)

	messages, err := g.Messages().Get(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, repository.TeacherID, messages[0].SenderID)
	assert.Equal(t, "s2", messages[0].ReceiverID)
	assert.True(t, strings.Contains(messages[0].Content, "October 2023"))
	assert.False(t, messages[0].IsRead)
}

func TestBulkRemindersGoThroughQueue(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	queue := &recordingQueue{}
	svc := NewReminderService(g, nil, nil)
	svc.UseQueue(queue)
	svc.now = fixedClock(2023, time.October, 20)

	result, err := svc.Send(ctx, teacher, models.ReminderRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2023-10", result.Month)
	assert.Equal(t, []string{"s2", "s3"}, result.Students)
	assert.True(t, result.Queued)
	require.Len(t, queue.jobs, 2)

	messages, err := g.Messages().Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	for _, job := range queue.jobs {
		require.NoError(t, svc.Handle(ctx, job))
	}
	messages, err = g.Messages().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestBulkRemindersInline(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	svc := NewReminderService(g, NewMetricsService(), nil)

	result, err := svc.Send(ctx, teacher, models.ReminderRequest{Month: "2023-11"})
	require.NoError(t, err)
	assert.Len(t, result.Students, 3)

	messages, err := g.Messages().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestReminderRules(t *testing.T) {
	ctx := context.Background()
	svc := NewReminderService(newGateway(t), nil, nil)

	_, err := svc.Send(ctx, student, models.ReminderRequest{})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Send(ctx, teacher, models.ReminderRequest{Month: "Oct"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Send(ctx, teacher, models.ReminderRequest{StudentID: "s9", Month: "2023-10"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	require.Error(t, svc.Handle(ctx, jobs.Job{ID: "j1", Type: "other"}))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "October 2023", MonthLabel(time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)))
}
