package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type scheduleStore interface {
	Schedule() repository.Collection[models.ScheduleItem]
}

// ScheduleService edits the weekly class schedule. Items are never removed.
type ScheduleService struct {
	store     scheduleStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(store scheduleStore, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{store: store, validator: validate, logger: logger}
}

// List returns the schedule in insertion order.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleItem, error) {
	items, err := s.store.Schedule().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load schedule")
	}
	return items, nil
}

// Add appends a slot.
func (s *ScheduleService) Add(ctx context.Context, actor models.Actor, req models.ScheduleItemRequest) (*models.ScheduleItem, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid schedule payload")
	}
	item := models.ScheduleItem{ID: repository.NewID("sch"), Time: req.Time, Subject: req.Subject, Teacher: req.Teacher}
	if _, err := s.store.Schedule().Update(ctx, func(items []models.ScheduleItem) ([]models.ScheduleItem, error) {
		return append(items, item), nil
	}); err != nil {
		return nil, storageFailure(err, "failed to save schedule")
	}
	return &item, nil
}

// Update replaces the slot with the given id.
func (s *ScheduleService) Update(ctx context.Context, actor models.Actor, id string, req models.ScheduleItemRequest) (*models.ScheduleItem, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid schedule payload")
	}
	item := models.ScheduleItem{ID: id, Time: req.Time, Subject: req.Subject, Teacher: req.Teacher}
	_, err := s.store.Schedule().Update(ctx, func(items []models.ScheduleItem) ([]models.ScheduleItem, error) {
		for i := range items {
			if items[i].ID == id {
				items[i] = item
				return items, nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule item not found")
	})
	if err != nil {
		return nil, passThrough(err, "failed to save schedule")
	}
	return &item, nil
}
