package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type attendanceStore interface {
	Attendance() repository.Collection[models.AttendanceRecord]
	Students() repository.Collection[models.User]
}

// AttendanceService manages per-day presence records.
type AttendanceService struct {
	store     attendanceStore
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func(ctx context.Context, studentID string)
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store attendanceStore, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: store, validator: validate, logger: logger}
}

// OnChange registers a hook invoked after a student's attendance changes.
func (s *AttendanceService) OnChange(fn func(ctx context.Context, studentID string)) {
	s.onChange = fn
}

// Toggle flips the first matching record between PRESENT and ABSENT, treating LATE as not
// present. Without a record a PRESENT one is appended.
func (s *AttendanceService) Toggle(ctx context.Context, actor models.Actor, req models.ToggleAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid attendance payload")
	}

	var result models.AttendanceRecord
	_, err := s.store.Attendance().Update(ctx, func(records []models.AttendanceRecord) ([]models.AttendanceRecord, error) {
		for i := range records {
			if records[i].StudentID == req.StudentID && records[i].Date == req.Date {
				records[i].Status = nextStatus(records[i].Status)
				result = records[i]
				return records, nil
			}
		}
		result = models.AttendanceRecord{
			ID:        repository.NewID("att"),
			StudentID: req.StudentID,
			Date:      req.Date,
			Status:    models.AttendancePresent,
		}
		return append(records, result), nil
	})
	if err != nil {
		return nil, storageFailure(err, "failed to update attendance")
	}

	s.logger.Debug("attendance toggled",
		zap.String("student_id", req.StudentID),
		zap.String("date", req.Date),
		zap.String("status", string(result.Status)))
	if s.onChange != nil {
		s.onChange(ctx, req.StudentID)
	}
	return &result, nil
}

func nextStatus(current models.AttendanceStatus) models.AttendanceStatus {
	if current == models.AttendancePresent {
		return models.AttendanceAbsent
	}
	return models.AttendancePresent
}

// StatusFor looks up the status without mutating anything.
func (s *AttendanceService) StatusFor(ctx context.Context, actor models.Actor, studentID, date string) (models.AttendanceStatus, error) {
	studentID, err := scopeToActor(actor, studentID)
	if err != nil {
		return "", err
	}
	records, err := s.store.Attendance().Get(ctx)
	if err != nil {
		return "", storageFailure(err, "failed to load attendance")
	}
	return StatusFor(records, studentID, date), nil
}

// StatusFor returns the first matching record's status or NOT_MARKED.
func StatusFor(records []models.AttendanceRecord, studentID, date string) models.AttendanceStatus {
	for _, r := range records {
		if r.StudentID == studentID && r.Date == date {
			return r.Status
		}
	}
	return models.AttendanceNotMarked
}

// List returns attendance records. Students only ever see their own.
func (s *AttendanceService) List(ctx context.Context, actor models.Actor, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	studentID, err := scopeToActor(actor, filter.StudentID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.Attendance().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load attendance")
	}
	result := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// Roll builds the teacher's sheet for date.
func (s *AttendanceService) Roll(ctx context.Context, actor models.Actor, date string) ([]models.RollEntry, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Var(date, "required,datetime=2006-01-02"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}
	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	records, err := s.store.Attendance().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load attendance")
	}
	roll := make([]models.RollEntry, 0, len(students))
	for _, student := range students {
		roll = append(roll, models.RollEntry{Student: student, Status: StatusFor(records, student.ID, date)})
	}
	return roll, nil
}

// AttendanceRate is the rounded share of PRESENT records, optionally for a single student.
func AttendanceRate(records []models.AttendanceRecord, studentID string) int {
	var total, present int
	for _, r := range records {
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		total++
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	if total == 0 {
		return 0
	}
	return roundPercent(float64(present) / float64(total) * 100)
}
