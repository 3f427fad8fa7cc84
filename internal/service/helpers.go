package service

import (
	"errors"
	"math"
	"time"

	"github.com/noah-isme/rcc-portal/internal/models"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

func requireTeacher(actor models.Actor) error {
	if !actor.IsTeacher() {
		return appErrors.Clone(appErrors.ErrForbidden, "only the teacher may perform this action")
	}
	return nil
}

// scopeToActor forces students onto their own records. Teachers may request any student.
func scopeToActor(actor models.Actor, studentID string) (string, error) {
	if actor.IsTeacher() {
		return studentID, nil
	}
	if studentID != "" && studentID != actor.ID {
		return "", appErrors.Clone(appErrors.ErrForbidden, "students may only access their own records")
	}
	return actor.ID, nil
}

func storageFailure(err error, message string) error {
	return appErrors.Internal(err, message)
}

// passThrough keeps typed domain errors raised inside an update and wraps anything else.
func passThrough(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return storageFailure(err, message)
}

func validationFailure(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func roundPercent(v float64) int {
	return int(math.Round(v))
}

// monthKey buckets t by its UTC month, the same calendar payment dates are stamped in.
func monthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func findStudent(students []models.User, id string) (models.User, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return models.User{}, false
}

func strPtr(s string) *string {
	return &s
}
