package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type testStore interface {
	Tests() repository.Collection[models.TestRecord]
	Students() repository.Collection[models.User]
}

// TestService records weekly test results. Records are never edited or removed.
type TestService struct {
	store     testStore
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func(ctx context.Context, studentID string)
}

// NewTestService constructs the test record service.
func NewTestService(store testStore, validate *validator.Validate, logger *zap.Logger) *TestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestService{store: store, validator: validate, logger: logger}
}

// OnChange registers a hook invoked after a result is added for a student.
func (s *TestService) OnChange(fn func(ctx context.Context, studentID string)) {
	s.onChange = fn
}

// AddResult prepends a new record.
func (s *TestService) AddResult(ctx context.Context, actor models.Actor, req models.AddTestResultRequest) (*models.TestRecord, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid test result payload")
	}

	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	if _, ok := findStudent(students, req.StudentID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	record := models.TestRecord{
		ID:            repository.NewID("test"),
		StudentID:     req.StudentID,
		Subject:       req.Subject,
		Date:          req.Date,
		MarksObtained: req.MarksObtained,
		TotalMarks:    req.TotalMarks,
		Grade:         req.Grade,
	}
	if _, err := s.store.Tests().Update(ctx, func(tests []models.TestRecord) ([]models.TestRecord, error) {
		return append([]models.TestRecord{record}, tests...), nil
	}); err != nil {
		return nil, storageFailure(err, "failed to save test result")
	}

	s.logger.Info("test result added", zap.String("student_id", record.StudentID), zap.String("subject", record.Subject))
	if s.onChange != nil {
		s.onChange(ctx, record.StudentID)
	}
	return &record, nil
}

// List returns results with their display percentage. Students only see their own.
func (s *TestService) List(ctx context.Context, actor models.Actor, studentID string) ([]models.TestResultView, error) {
	studentID, err := scopeToActor(actor, studentID)
	if err != nil {
		return nil, err
	}
	tests, err := s.store.Tests().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load tests")
	}
	views := make([]models.TestResultView, 0, len(tests))
	for _, t := range filterTests(tests, studentID) {
		views = append(views, models.TestResultView{TestRecord: t, Percentage: PercentageFor(t)})
	}
	return views, nil
}

// PercentageFor is the rounded score percentage; 0 when the test has no total.
func PercentageFor(record models.TestRecord) int {
	if record.TotalMarks <= 0 {
		return 0
	}
	return roundPercent(record.MarksObtained / record.TotalMarks * 100)
}

// AverageScore is the rounded mean of the per-test percentages.
func AverageScore(tests []models.TestRecord) int {
	if len(tests) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tests {
		if t.TotalMarks > 0 {
			sum += t.MarksObtained / t.TotalMarks * 100
		}
	}
	return int(math.Round(sum / float64(len(tests))))
}

func filterTests(tests []models.TestRecord, studentID string) []models.TestRecord {
	if studentID == "" {
		return tests
	}
	result := make([]models.TestRecord, 0, len(tests))
	for _, t := range tests {
		if t.StudentID == studentID {
			result = append(result, t)
		}
	}
	return result
}
