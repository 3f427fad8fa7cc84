package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type rosterStore interface {
	Students() repository.Collection[models.User]
}

// RosterService manages the student list.
type RosterService struct {
	store     rosterStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(store rosterStore, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: store, validator: validate, logger: logger}
}

// List returns the roster in insertion order.
func (s *RosterService) List(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	return students, nil
}

// Get returns one student. Students may read their own entry.
func (s *RosterService) Get(ctx context.Context, actor models.Actor, id string) (*models.User, error) {
	if _, err := scopeToActor(actor, id); err != nil {
		return nil, err
	}
	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	student, ok := findStudent(students, id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Create appends a student. Mobiles double as login identifiers and must be unique.
func (s *RosterService) Create(ctx context.Context, actor models.Actor, req models.CreateStudentRequest) (*models.User, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "name and mobile are required")
	}

	student := models.User{
		ID:      repository.NewID("s"),
		Name:    req.Name,
		Mobile:  req.Mobile,
		Role:    models.RoleStudent,
		Batch:   blankToNil(req.Batch),
		Class:   blankToNil(req.Class),
		Section: blankToNil(req.Section),
	}
	_, err := s.store.Students().Update(ctx, func(students []models.User) ([]models.User, error) {
		if mobileTaken(students, student.Mobile, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "mobile already registered")
		}
		return append(students, student), nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to save student")
	}
	s.logger.Info("student added", zap.String("student_id", student.ID))
	return &student, nil
}

// Update patches the provided fields. The role never changes.
func (s *RosterService) Update(ctx context.Context, actor models.Actor, id string, req models.UpdateStudentRequest) (*models.User, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid student payload")
	}

	var updated models.User
	_, err := s.store.Students().Update(ctx, func(students []models.User) ([]models.User, error) {
		for i := range students {
			if students[i].ID != id {
				continue
			}
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
				}
				students[i].Name = name
			}
			if req.Mobile != nil {
				mobile := strings.TrimSpace(*req.Mobile)
				if mobile == "" {
					return nil, appErrors.Clone(appErrors.ErrValidation, "mobile is required")
				}
				if mobileTaken(students, mobile, id) {
					return nil, appErrors.Clone(appErrors.ErrConflict, "mobile already registered")
				}
				students[i].Mobile = mobile
			}
			if req.Batch != nil {
				students[i].Batch = blankToNil(req.Batch)
			}
			if req.Class != nil {
				students[i].Class = blankToNil(req.Class)
			}
			if req.Section != nil {
				students[i].Section = blankToNil(req.Section)
			}
			updated = students[i]
			return students, nil
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	})
	if err != nil {
		return nil, passThrough(err, "failed to save student")
	}
	return &updated, nil
}

// Delete removes a student once the caller has confirmed. Their attendance, tests and
// payments are kept.
func (s *RosterService) Delete(ctx context.Context, actor models.Actor, id string, confirmed bool) error {
	if err := requireTeacher(actor); err != nil {
		return err
	}
	if !confirmed {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "removing a student must be confirmed")
	}
	_, err := s.store.Students().Update(ctx, func(students []models.User) ([]models.User, error) {
		kept := make([]models.User, 0, len(students))
		for _, st := range students {
			if st.ID != id {
				kept = append(kept, st)
			}
		}
		if len(kept) == len(students) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return kept, nil
	})
	if err != nil {
		return passThrough(err, "failed to delete student")
	}
	s.logger.Info("student removed", zap.String("student_id", id))
	return nil
}

// TelLink builds the dial link for a mobile number.
func TelLink(mobile string) string {
	if mobile == "" {
		return ""
	}
	return "tel:" + mobile
}

// WithTelLinks decorates roster entries for responses.
func WithTelLinks(students []models.User) []models.StudentView {
	views := make([]models.StudentView, 0, len(students))
	for _, s := range students {
		views = append(views, models.StudentView{User: s, TelLink: TelLink(s.Mobile)})
	}
	return views
}

func mobileTaken(students []models.User, mobile, exceptID string) bool {
	for _, s := range students {
		if s.ID != exceptID && s.Mobile == mobile {
			return true
		}
	}
	return false
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
