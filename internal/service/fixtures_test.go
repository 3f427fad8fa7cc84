package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	"github.com/noah-isme/rcc-portal/pkg/storage"
)

var (
	teacher = models.Actor{ID: repository.TeacherID, Name: "Raghubir Sir", Role: models.RoleTeacher}
	student = models.Actor{ID: "s1", Name: "Sidharth Kumar", Role: models.RoleStudent}
	other   = models.Actor{ID: "s2", Name: "Anjali Sharma", Role: models.RoleStudent}
)

func newGateway(t *testing.T) *repository.Gateway {
	t.Helper()
	return repository.NewGateway(storage.NewMemoryKV(), nil)
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 16, 30, 0, 0, time.UTC) }
}

func clearPayments(t *testing.T, g *repository.Gateway) {
	t.Helper()
	require.NoError(t, g.Payments().Save(context.Background(), nil))
}
