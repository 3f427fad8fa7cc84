package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/jobs"
)

// JobTypeFeeReminder identifies reminder jobs on the queue.
const JobTypeFeeReminder = "fee_reminder"

type reminderStore interface {
	Students() repository.Collection[models.User]
	Payments() repository.Collection[models.PaymentRecord]
	SendAutomatedReminder(ctx context.Context, studentID, month string) (*models.Message, error)
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// ReminderPayload is carried by fee reminder jobs.
type ReminderPayload struct {
	StudentID string
	Month     string
}

// ReminderService sends automated fee reminders, directly or through the worker pool.
type ReminderService struct {
	store   reminderStore
	queue   jobQueue
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewReminderService constructs the reminder service. Without a queue every reminder is sent inline.
func NewReminderService(store reminderStore, metrics *MetricsService, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{store: store, metrics: metrics, logger: logger, now: utcNow}
}

// UseQueue routes bulk reminders through q.
func (s *ReminderService) UseQueue(q jobQueue) {
	s.queue = q
}

// Send reminds one student, or every delinquent student when req.StudentID is empty.
func (s *ReminderService) Send(ctx context.Context, actor models.Actor, req models.ReminderRequest) (*models.ReminderResult, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	month := req.Month
	if month == "" {
		month = monthKey(s.now())
	}
	period, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM")
	}
	label := MonthLabel(period)

	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}

	result := &models.ReminderResult{Month: month, Students: []string{}}
	if req.StudentID != "" {
		if _, ok := findStudent(students, req.StudentID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if err := s.deliver(ctx, req.StudentID, label); err != nil {
			return nil, storageFailure(err, "failed to send reminder")
		}
		result.Students = append(result.Students, req.StudentID)
		return result, nil
	}

	payments, err := s.store.Payments().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load payments")
	}
	for _, student := range DelinquentStudents(students, payments, month) {
		if s.queue != nil {
			job := jobs.Job{
				ID:      repository.NewID("job"),
				Type:    JobTypeFeeReminder,
				Payload: ReminderPayload{StudentID: student.ID, Month: label},
			}
			if err := s.queue.Enqueue(job); err != nil {
				return nil, appErrors.Internal(err, "failed to queue reminders")
			}
			result.Queued = true
		} else if err := s.deliver(ctx, student.ID, label); err != nil {
			return nil, storageFailure(err, "failed to send reminder")
		}
		result.Students = append(result.Students, student.ID)
	}
	s.logger.Info("fee reminders dispatched", zap.String("month", month), zap.Int("count", len(result.Students)), zap.Bool("queued", result.Queued))
	return result, nil
}

// Handle is the worker pool handler for reminder jobs.
func (s *ReminderService) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(ReminderPayload)
	if !ok || job.Type != JobTypeFeeReminder {
		return fmt.Errorf("unexpected job %s of type %s", job.ID, job.Type)
	}
	return s.deliver(ctx, payload.StudentID, payload.Month)
}

func (s *ReminderService) deliver(ctx context.Context, studentID, month string) error {
	if _, err := s.store.SendAutomatedReminder(ctx, studentID, month); err != nil {
		s.metrics.RecordReminder("failed")
		return err
	}
	s.metrics.RecordReminder("sent")
	return nil
}

// MonthLabel renders a month for reminder text, e.g. "October 2023".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}
