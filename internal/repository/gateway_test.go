package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/pkg/storage"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingKV) Set(context.Context, string, string) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }

func TestGetFallsBackToSeedData(t *testing.T) {
	g := NewGateway(storage.NewMemoryKV(), nil)
	ctx := context.Background()

	students, err := g.Students().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 3)
	assert.Equal(t, "s1", students[0].ID)

	messages, err := g.Messages().Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)

	announcements, err := g.Announcements().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, announcements, 3)
}

func TestSeedDataIsFreshPerCall(t *testing.T) {
	g := NewGateway(storage.NewMemoryKV(), nil)
	ctx := context.Background()

	first, err := g.Schedule().Get(ctx)
	require.NoError(t, err)
	first[0].Subject = "Biology"

	second, err := g.Schedule().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", second[0].Subject)
}

func TestSaveGetRoundTrip(t *testing.T) {
	g := NewGateway(storage.NewMemoryKV(), nil)
	ctx := context.Background()
	proof := "data:image/png;base64,AAAA"
	payments := []models.PaymentRecord{
		{ID: "p9", StudentID: "s2", Amount: 2500, Date: "2023-10-05", Status: models.PaymentPending, Description: "Monthly Fees - Oct", ProofImage: &proof},
		{ID: "p10", StudentID: "s3", Amount: 5000, Date: "2023-10-06", Status: models.PaymentSuccess, Description: "Monthly Fees - Oct"},
	}

	require.NoError(t, g.Payments().Save(ctx, payments))
	got, err := g.Payments().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, payments, got)
}

func TestSaveNilPersistsEmptyArray(t *testing.T) {
	kv := storage.NewMemoryKV()
	g := NewGateway(kv, nil)
	ctx := context.Background()

	require.NoError(t, g.Tests().Save(ctx, nil))
	raw, err := kv.Get(ctx, KeyTests)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	tests, err := g.Tests().Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tests, "an explicitly emptied collection must not fall back to seed data")
}

func TestMalformedPayloadIsTreatedAsAbsent(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeyStudents, "{not json"))

	g := NewGateway(kv, nil)
	students, err := g.Students().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedStudents(), students)
}

func TestMediumFailureIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	g := NewGateway(failingKV{err: boom}, nil)

	_, err := g.Attendance().Get(context.Background())
	require.ErrorIs(t, err, boom)

	err = g.Attendance().Save(context.Background(), nil)
	require.ErrorIs(t, err, boom)
}

func TestUpdateDoesNotWriteOnError(t *testing.T) {
	kv := storage.NewMemoryKV()
	g := NewGateway(kv, nil)
	ctx := context.Background()

	_, err := g.Announcements().Update(ctx, func(a []models.Announcement) ([]models.Announcement, error) {
		return nil, errors.New("rejected")
	})
	require.Error(t, err)

	_, err = kv.Get(ctx, KeyAnnouncements)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestConcurrentUpdatesAreSerialised(t *testing.T) {
	g := NewGateway(storage.NewMemoryKV(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Messages().Update(ctx, func(m []models.Message) ([]models.Message, error) {
				return append(m, models.Message{ID: NewID("msg")}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	messages, err := g.Messages().Get(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, 20)
}

func TestSendAutomatedReminder(t *testing.T) {
	g := NewGateway(storage.NewMemoryKV(), nil)
	g.now = func() time.Time { return time.Date(2023, 10, 15, 16, 5, 0, 0, time.UTC) }
	ctx := context.Background()

	msg, err := g.SendAutomatedReminder(ctx, "s2", "October")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg.ID, "rem-"))
	assert.Equal(t, TeacherID, msg.SenderID)
	assert.Equal(t, "s2", msg.ReceiverID)
	assert.Equal(t, "04:05 PM", msg.Timestamp)
	assert.False(t, msg.IsRead)
	assert.Contains(t, msg.Content, "Your tuition fee for October is currently pending.")

	messages, err := g.Messages().Get(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, *msg, messages[0])
}

func TestCurrentUserLifecycle(t *testing.T) {
	g := NewGateway(storage.NewMemoryKV(), nil)
	ctx := context.Background()

	user, err := g.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, g.SaveCurrentUser(ctx, SeedTeacher()))
	user, err = g.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, TeacherID, user.ID)

	require.NoError(t, g.ClearCurrentUser(ctx))
	user, err = g.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestNewIDCarriesPrefix(t *testing.T) {
	a := NewID("ann")
	b := NewID("ann")
	assert.True(t, strings.HasPrefix(a, "ann-"))
	assert.NotEqual(t, a, b)
}

func TestCacheRepositoryWithoutClientMisses(t *testing.T) {
	repo := NewCacheRepository(nil, "rcc", nil)
	var dest string
	err := repo.Get(context.Background(), "insight:s1", &dest)
	assert.Error(t, err)
	assert.NoError(t, repo.Set(context.Background(), "insight:s1", "x", time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "insight:*"))
}
