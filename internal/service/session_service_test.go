package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

func newSessionService(t *testing.T) (*SessionService, *repository.Gateway) {
	t.Helper()
	g := newGateway(t)
	svc, err := NewSessionService(g, nil, nil, SessionConfig{
		TeacherUsername:   "admin",
		TeacherPassphrase: "teacher-key",
		StudentPassphrase: "student-key",
		TokenSecret:       "test-secret",
		TokenExpiry:       time.Hour,
		HashCost:          bcrypt.MinCost,
	})
	require.NoError(t, err)
	return svc, g
}

func TestTeacherLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)

	resp, err := svc.Login(ctx, models.LoginRequest{Role: models.RoleTeacher, Identifier: "admin", Password: "teacher-key"})
	require.NoError(t, err)
	assert.Equal(t, repository.TeacherID, resp.User.ID)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Raghubir Sir", current.Name)

	claims, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, repository.TeacherID, claims.Actor().ID)
}

func TestStudentLoginByMobile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)

	resp, err := svc.Login(ctx, models.LoginRequest{Role: models.RoleStudent, Identifier: "9988776655", Password: "student-key"})
	require.NoError(t, err)
	assert.Equal(t, "s2", resp.User.ID)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
}

func TestFailedLoginKeepsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)

	_, err := svc.Login(ctx, models.LoginRequest{Role: models.RoleStudent, Identifier: "8409313191", Password: "student-key"})
	require.NoError(t, err)

	cases := []models.LoginRequest{
		{Role: models.RoleTeacher, Identifier: "admin", Password: "wrong"},
		{Role: models.RoleTeacher, Identifier: "root", Password: "teacher-key"},
		{Role: models.RoleStudent, Identifier: "0000000000", Password: "student-key"},
		{Role: models.RoleStudent, Identifier: "9988776655", Password: "teacher-key"},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, models.LoginRequest{Role: "ADMIN", Identifier: "admin", Password: "x"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "s1", current.ID)
}

func TestAuthenticateRequiresLiveSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)

	first, err := svc.Login(ctx, models.LoginRequest{Role: models.RoleStudent, Identifier: "8409313191", Password: "student-key"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, models.LoginRequest{Role: models.RoleTeacher, Identifier: "admin", Password: "teacher-key"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, first.AccessToken)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx))
	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = svc.Authenticate(ctx, "not-a-token")
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestExpiredTokenRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(ctx, models.LoginRequest{Role: models.RoleTeacher, Identifier: "admin", Password: "teacher-key"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(resp.AccessToken)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthenticateRejectsUnknownStoredRole(t *testing.T) {
	ctx := context.Background()
	svc, g := newSessionService(t)

	resp, err := svc.Login(ctx, models.LoginRequest{Role: models.RoleStudent, Identifier: "8409313191", Password: "student-key"})
	require.NoError(t, err)

	tampered := resp.User
	tampered.Role = "ADMIN"
	require.NoError(t, g.SaveCurrentUser(ctx, tampered))

	_, err = svc.Authenticate(ctx, resp.AccessToken)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
