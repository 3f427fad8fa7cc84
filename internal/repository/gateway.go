package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/pkg/storage"
)

// Keys under which the portal collections are persisted.
const (
	KeyStudents      = "rcc_students"
	KeyAttendance    = "rcc_attendance"
	KeyTests         = "rcc_tests"
	KeyPayments      = "rcc_payments"
	KeySchedule      = "rcc_schedule"
	KeyMessages      = "rcc_messages"
	KeyAnnouncements = "rcc_announcements"
	KeyUser          = "rcc_user"
)

// Gateway reads and writes whole collections on the key/value medium and falls back to
// seed data when a collection has never been persisted.
type Gateway struct {
	kv     storage.KV
	logger *zap.Logger
	now    func() time.Time

	// mu serialises read-modify-write cycles within the process.
	mu sync.Mutex
}

// NewGateway constructs a gateway over kv.
func NewGateway(kv storage.KV, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{kv: kv, logger: logger, now: time.Now}
}

// Collection is a typed view over one rcc_* key.
type Collection[T any] struct {
	g    *Gateway
	key  string
	seed func() []T
}

func (g *Gateway) Students() Collection[models.User] {
	return Collection[models.User]{g: g, key: KeyStudents, seed: SeedStudents}
}

func (g *Gateway) Attendance() Collection[models.AttendanceRecord] {
	return Collection[models.AttendanceRecord]{g: g, key: KeyAttendance, seed: SeedAttendance}
}

func (g *Gateway) Tests() Collection[models.TestRecord] {
	return Collection[models.TestRecord]{g: g, key: KeyTests, seed: SeedTests}
}

func (g *Gateway) Payments() Collection[models.PaymentRecord] {
	return Collection[models.PaymentRecord]{g: g, key: KeyPayments, seed: SeedPayments}
}

func (g *Gateway) Schedule() Collection[models.ScheduleItem] {
	return Collection[models.ScheduleItem]{g: g, key: KeySchedule, seed: SeedSchedule}
}

func (g *Gateway) Messages() Collection[models.Message] {
	return Collection[models.Message]{g: g, key: KeyMessages, seed: func() []models.Message { return []models.Message{} }}
}

func (g *Gateway) Announcements() Collection[models.Announcement] {
	return Collection[models.Announcement]{g: g, key: KeyAnnouncements, seed: SeedAnnouncements}
}

// Get returns the persisted collection, or a fresh copy of the seed data when nothing
// usable has been persisted. A malformed payload is logged and treated as absent.
func (c Collection[T]) Get(ctx context.Context) ([]T, error) {
	raw, err := c.g.kv.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return c.seed(), nil
		}
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		c.g.logger.Warn("discarding malformed collection", zap.String("key", c.key), zap.Error(err))
		return c.seed(), nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save serialises the full collection and overwrites the stored value.
func (c Collection[T]) Save(ctx context.Context, records []T) error {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()
	return c.save(ctx, records)
}

// Update runs get, fn and save as one step with respect to other callers of this gateway.
// When fn returns an error nothing is written.
func (c Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()

	current, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (c Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.g.kv.Set(ctx, c.key, string(payload)); err != nil {
		return fmt.Errorf("store %s: %w", c.key, err)
	}
	return nil
}

// CurrentUser returns the logged in user, or nil when nobody is logged in.
func (g *Gateway) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, err := g.kv.Get(ctx, KeyUser)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", KeyUser, err)
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		g.logger.Warn("discarding malformed session", zap.String("key", KeyUser), zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

// SaveCurrentUser replaces the logged in user.
func (g *Gateway) SaveCurrentUser(ctx context.Context, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyUser, err)
	}
	if err := g.kv.Set(ctx, KeyUser, string(payload)); err != nil {
		return fmt.Errorf("store %s: %w", KeyUser, err)
	}
	return nil
}

// ClearCurrentUser ends the session.
func (g *Gateway) ClearCurrentUser(ctx context.Context) error {
	if err := g.kv.Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("clear %s: %w", KeyUser, err)
	}
	return nil
}

// ReminderText is the body of the automated fee reminder for month.
func ReminderText(month string) string {
	return fmt.Sprintf("⚠️ AUTOMATED REMINDER: Your tuition fee for %s is currently pending. "+
		"Please complete the online payment and upload the screenshot in the Payments section immediately to avoid late fees.", month)
}

// SendAutomatedReminder appends a fee reminder from the teacher to studentID.
func (g *Gateway) SendAutomatedReminder(ctx context.Context, studentID, month string) (*models.Message, error) {
	reminder := models.Message{
		ID:         NewID("rem"),
		SenderID:   TeacherID,
		ReceiverID: studentID,
		Content:    ReminderText(month),
		Timestamp:  DisplayTime(g.now()),
		IsRead:     false,
	}
	if _, err := g.Messages().Update(ctx, func(messages []models.Message) ([]models.Message, error) {
		return append(messages, reminder), nil
	}); err != nil {
		return nil, err
	}
	g.logger.Info("automated reminder sent", zap.String("student_id", studentID), zap.String("month", month))
	return &reminder, nil
}
