package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
)

type dashboardStore interface {
	Students() repository.Collection[models.User]
	Attendance() repository.Collection[models.AttendanceRecord]
	Tests() repository.Collection[models.TestRecord]
	Payments() repository.Collection[models.PaymentRecord]
	Schedule() repository.Collection[models.ScheduleItem]
	Announcements() repository.Collection[models.Announcement]
	Messages() repository.Collection[models.Message]
}

// DashboardService composes the landing view for either role.
type DashboardService struct {
	store  dashboardStore
	config PaymentConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(store dashboardStore, config PaymentConfig, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.StudentTarget <= 0 {
		config.StudentTarget = 60000
	}
	return &DashboardService{store: store, config: config, logger: logger, now: utcNow}
}

type dashboardData struct {
	students      []models.User
	attendance    []models.AttendanceRecord
	tests         []models.TestRecord
	payments      []models.PaymentRecord
	schedule      []models.ScheduleItem
	announcements []models.Announcement
	messages      []models.Message
}

// Get returns the dashboard for the actor's role.
func (s *DashboardService) Get(ctx context.Context, actor models.Actor) (*models.Dashboard, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	month := monthKey(s.now())
	if actor.IsTeacher() {
		return &models.Dashboard{Role: actor.Role, Teacher: s.teacherView(actor, data, month)}, nil
	}
	return &models.Dashboard{Role: actor.Role, Student: s.studentView(actor, data, month)}, nil
}

func (s *DashboardService) teacherView(actor models.Actor, d *dashboardData, month string) *models.TeacherDashboard {
	pending := make([]models.PaymentRecord, 0)
	for _, p := range d.payments {
		if p.Status == models.PaymentPending {
			pending = append(pending, p)
		}
	}
	return &models.TeacherDashboard{
		TotalStudents:   len(d.students),
		AttendanceRate:  AttendanceRate(d.attendance, ""),
		AverageScore:    AverageScore(d.tests),
		PendingPayments: pending,
		DelinquentCount: len(DelinquentStudents(d.students, d.payments, month)),
		Schedule:        d.schedule,
		Announcements:   d.announcements,
		UnreadMessages:  UnreadCount(d.messages, actor.ID),
	}
}

func (s *DashboardService) studentView(actor models.Actor, d *dashboardData, month string) *models.StudentDashboard {
	student, ok := findStudent(d.students, actor.ID)
	if !ok {
		student = models.User{ID: actor.ID, Name: actor.Name, Role: actor.Role}
	}
	own := filterPayments(d.payments, actor.ID)
	pending := make([]models.PaymentRecord, 0)
	for _, p := range own {
		if p.Status == models.PaymentPending {
			pending = append(pending, p)
		}
	}
	return &models.StudentDashboard{
		Student:         student,
		AttendanceRate:  AttendanceRate(d.attendance, actor.ID),
		AverageScore:    AverageScore(filterTests(d.tests, actor.ID)),
		PendingPayments: pending,
		HasPendingDues:  !HasPaidInMonth(d.payments, actor.ID, month),
		Schedule:        d.schedule,
		Announcements:   d.announcements,
		UnreadMessages:  UnreadCount(d.messages, actor.ID),
		FeeProgress:     ProgressPercent(PaidTotal(own), s.config.StudentTarget),
	}
}

func (s *DashboardService) load(ctx context.Context) (*dashboardData, error) {
	var (
		d   dashboardData
		err error
	)
	if d.students, err = s.store.Students().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	if d.attendance, err = s.store.Attendance().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load attendance")
	}
	if d.tests, err = s.store.Tests().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load tests")
	}
	if d.payments, err = s.store.Payments().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load payments")
	}
	if d.schedule, err = s.store.Schedule().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load schedule")
	}
	if d.announcements, err = s.store.Announcements().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load announcements")
	}
	if d.messages, err = s.store.Messages().Get(ctx); err != nil {
		return nil, storageFailure(err, "failed to load messages")
	}
	return &d, nil
}
