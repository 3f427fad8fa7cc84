package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/insight"
)

// Summaries shown when generation does not produce text.
const (
	InsightErrorText = "Error generating insights. Please check your API key."
	InsightEmptyText = "Insight generation failed."
)

type insightStore interface {
	Students() repository.Collection[models.User]
	Tests() repository.Collection[models.TestRecord]
	Attendance() repository.Collection[models.AttendanceRecord]
}

// InsightConfig bounds the generation call and the cache lifetime of summaries.
type InsightConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// InsightService produces natural language progress summaries. Generation failures never
// surface as errors; they degrade to a fixed message.
type InsightService struct {
	store     insightStore
	generator insight.Generator
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	config    InsightConfig
}

// NewInsightService constructs the insight service. A nil generator behaves as a missing credential.
func NewInsightService(store insightStore, generator insight.Generator, cache *CacheService, metrics *MetricsService, logger *zap.Logger, config InsightConfig) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	return &InsightService{store: store, generator: generator, cache: cache, metrics: metrics, logger: logger, config: config}
}

// ForStudent summarises a student's tests and attendance. Students may only ask about themselves.
func (s *InsightService) ForStudent(ctx context.Context, actor models.Actor, studentID string) (*models.Insight, error) {
	studentID, err := scopeToActor(actor, studentID)
	if err != nil {
		return nil, err
	}
	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	student, ok := findStudent(students, studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	key := insightCacheKey(studentID)
	var cached string
	if s.cache.Get(ctx, key, &cached) {
		s.metrics.RecordInsight("cached")
		return &models.Insight{StudentID: studentID, Summary: cached, Cached: true}, nil
	}

	tests, err := s.store.Tests().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load tests")
	}
	attendance, err := s.store.Attendance().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load attendance")
	}

	prompt := insight.BuildPrompt(student.Name, scoresFor(tests, studentID), marksFor(attendance, studentID))
	summary, ok := s.generate(ctx, prompt)
	if ok {
		s.cache.Set(ctx, key, summary, s.config.CacheTTL)
	}
	return &models.Insight{StudentID: studentID, Summary: summary}, nil
}

// Invalidate drops the cached summary of a student whose records changed.
func (s *InsightService) Invalidate(ctx context.Context, studentID string) {
	s.cache.Invalidate(ctx, insightCacheKey(studentID))
}

func (s *InsightService) generate(ctx context.Context, prompt string) (string, bool) {
	if s.generator == nil {
		s.metrics.RecordInsight("failed")
		return InsightErrorText, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("insight generation failed", zap.Error(err))
		s.metrics.RecordInsight("failed")
		return InsightErrorText, false
	}
	if text == "" {
		s.metrics.RecordInsight("empty")
		return InsightEmptyText, false
	}
	s.metrics.RecordInsight("generated")
	return text, true
}

func insightCacheKey(studentID string) string {
	return "insight:" + studentID
}

func scoresFor(tests []models.TestRecord, studentID string) []insight.Score {
	scores := make([]insight.Score, 0)
	for _, t := range filterTests(tests, studentID) {
		scores = append(scores, insight.Score{Subject: t.Subject, MarksObtained: t.MarksObtained, TotalMarks: t.TotalMarks, Date: t.Date})
	}
	return scores
}

func marksFor(records []models.AttendanceRecord, studentID string) []insight.Mark {
	marks := make([]insight.Mark, 0)
	for _, r := range records {
		if r.StudentID == studentID {
			marks = append(marks, insight.Mark{Date: r.Date, Status: string(r.Status)})
		}
	}
	return marks
}
