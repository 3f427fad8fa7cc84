package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

func TestRosterLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(newGateway(t), nil, nil)

	created, err := svc.Create(ctx, teacher, models.CreateStudentRequest{
		Name: "  Priya Nair ", Mobile: "9123456780", Batch: strPtr("C"), Section: strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya Nair", created.Name)
	assert.Equal(t, models.RoleStudent, created.Role)
	require.NotNil(t, created.Batch)
	assert.Equal(t, "C", *created.Batch)
	assert.Nil(t, created.Section)

	list, err := svc.List(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, created.ID, list[3].ID)

	updated, err := svc.Update(ctx, teacher, created.ID, models.UpdateStudentRequest{Class: strPtr("11")})
	require.NoError(t, err)
	assert.Equal(t, "Priya Nair", updated.Name)
	require.NotNil(t, updated.Class)
	assert.Equal(t, "11", *updated.Class)

	require.ErrorIs(t, svc.Delete(ctx, teacher, created.ID, false), appErrors.ErrPreconditionFailed)
	require.NoError(t, svc.Delete(ctx, teacher, created.ID, true))
	require.ErrorIs(t, svc.Delete(ctx, teacher, created.ID, true), appErrors.ErrNotFound)

	list, err = svc.List(ctx, teacher)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestRosterRejectsDuplicateMobile(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(newGateway(t), nil, nil)

	_, err := svc.Create(ctx, teacher, models.CreateStudentRequest{Name: "Copy", Mobile: "8409313191"})
	require.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Update(ctx, teacher, "s2", models.UpdateStudentRequest{Mobile: strPtr("8409313191")})
	require.ErrorIs(t, err, appErrors.ErrConflict)

	same, err := svc.Update(ctx, teacher, "s1", models.UpdateStudentRequest{Mobile: strPtr("8409313191")})
	require.NoError(t, err)
	assert.Equal(t, "8409313191", same.Mobile)
}

func TestRosterPermissions(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(newGateway(t), nil, nil)

	_, err := svc.List(ctx, student)
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Create(ctx, student, models.CreateStudentRequest{Name: "x", Mobile: "1"})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	own, err := svc.Get(ctx, student, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Sidharth Kumar", own.Name)

	_, err = svc.Get(ctx, student, "s2")
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Get(ctx, teacher, "s9")
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(ctx, teacher, models.CreateStudentRequest{Name: "   ", Mobile: "1"})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestTelLinks(t *testing.T) {
	assert.Equal(t, "tel:8409313191", TelLink("8409313191"))
	assert.Empty(t, TelLink(""))

	views := WithTelLinks([]models.User{{ID: "s1", Mobile: "8409313191"}})
	require.Len(t, views, 1)
	assert.Equal(t, "tel:8409313191", views[0].TelLink)
}

func TestScheduleEdits(t *testing.T) {
	ctx := context.Background()
	svc := NewScheduleService(newGateway(t), nil, nil)

	item, err := svc.Add(ctx, teacher, models.ScheduleItemRequest{Time: "08:00 PM", Subject: "Biology", Teacher: "Raghubir Sir"})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, item.ID, items[3].ID)

	_, err = svc.Update(ctx, teacher, "sch2", models.ScheduleItemRequest{Time: "06:00 PM", Subject: "Physics", Teacher: "Sharma Sir"})
	require.NoError(t, err)
	items, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "06:00 PM", items[1].Time)

	_, err = svc.Update(ctx, teacher, "missing", models.ScheduleItemRequest{Time: "1", Subject: "2", Teacher: "3"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Add(ctx, student, models.ScheduleItemRequest{Time: "1", Subject: "2", Teacher: "3"})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Add(ctx, teacher, models.ScheduleItemRequest{Time: "1"})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
