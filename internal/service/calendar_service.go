package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type calendarStore interface {
	Announcements() repository.Collection[models.Announcement]
	Schedule() repository.Collection[models.ScheduleItem]
}

// CalendarService serves the date keyed announcement board and class days.
type CalendarService struct {
	store     calendarStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the calendar service.
func NewCalendarService(store calendarStore, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{store: store, validator: validate, logger: logger}
}

// EventsOn lists the announcements dated date and whether classes run that day.
func (s *CalendarService) EventsOn(ctx context.Context, date string) (*models.DayEvents, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}
	announcements, err := s.store.Announcements().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load announcements")
	}
	schedule, err := s.store.Schedule().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load schedule")
	}
	return EventsOn(announcements, schedule, day), nil
}

// EventsOn is the pure form of CalendarService.EventsOn.
func EventsOn(announcements []models.Announcement, schedule []models.ScheduleItem, day time.Time) *models.DayEvents {
	date := day.Format(dateLayout)
	events := &models.DayEvents{Date: date, Announcements: make([]models.Announcement, 0)}
	for _, a := range announcements {
		if a.Date == date {
			events.Announcements = append(events.Announcements, a)
		}
	}
	events.HasClasses = HasClasses(day, schedule)
	if events.HasClasses {
		events.Schedule = schedule
	}
	return events
}

// HasClasses is true on Monday to Friday when the schedule is not empty.
func HasClasses(day time.Time, schedule []models.ScheduleItem) bool {
	wd := day.Weekday()
	return wd != time.Saturday && wd != time.Sunday && len(schedule) > 0
}

// MonthGrid lays out month (1-12) of year in Sunday-first weeks.
func (s *CalendarService) MonthGrid(ctx context.Context, year, month int) (*models.MonthGrid, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year or month out of range")
	}
	announcements, err := s.store.Announcements().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load announcements")
	}
	schedule, err := s.store.Schedule().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load schedule")
	}
	return BuildMonthGrid(year, time.Month(month), announcements, schedule), nil
}

// DaysIn returns the number of days in month using the proleptic Gregorian calendar.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthGrid pads the month with leading blanks up to the weekday of the 1st (Sunday = 0)
// and trailing blanks to complete the last week.
func BuildMonthGrid(year int, month time.Month, announcements []models.Announcement, schedule []models.ScheduleItem) *models.MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := DaysIn(year, month)
	leading := int(first.Weekday())

	counts := make(map[string]int)
	for _, a := range announcements {
		counts[a.Date]++
	}

	cells := make([]*models.DayCell, leading, leading+days+6)
	for d := 1; d <= days; d++ {
		day := first.AddDate(0, 0, d-1)
		date := day.Format(dateLayout)
		cells = append(cells, &models.DayCell{
			Day:               d,
			Date:              date,
			Weekday:           int(day.Weekday()),
			AnnouncementCount: counts[date],
			HasClasses:        HasClasses(day, schedule),
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	weeks := make([][]*models.DayCell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return &models.MonthGrid{
		Year:          year,
		Month:         int(month),
		DaysInMonth:   days,
		LeadingBlanks: leading,
		Weeks:         weeks,
	}
}

// ListAnnouncements returns every announcement, newest first as stored.
func (s *CalendarService) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	announcements, err := s.store.Announcements().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load announcements")
	}
	return announcements, nil
}

// AddAnnouncement prepends a new announcement.
func (s *CalendarService) AddAnnouncement(ctx context.Context, actor models.Actor, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid announcement payload")
	}
	ann := models.Announcement{ID: repository.NewID("ann"), Title: req.Title, Message: req.Message, Date: req.Date}
	if _, err := s.store.Announcements().Update(ctx, func(list []models.Announcement) ([]models.Announcement, error) {
		return append([]models.Announcement{ann}, list...), nil
	}); err != nil {
		return nil, storageFailure(err, "failed to save announcement")
	}
	s.logger.Info("announcement added", zap.String("announcement_id", ann.ID), zap.String("date", ann.Date))
	return &ann, nil
}

// UpdateAnnouncement replaces the announcement with the given id.
func (s *CalendarService) UpdateAnnouncement(ctx context.Context, actor models.Actor, id string, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid announcement payload")
	}
	updated := models.Announcement{ID: id, Title: req.Title, Message: req.Message, Date: req.Date}
	_, err := s.store.Announcements().Update(ctx, func(list []models.Announcement) ([]models.Announcement, error) {
		for i := range list {
			if list[i].ID == id {
				list[i] = updated
				return list, nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	})
	if err != nil {
		return nil, passThrough(err, "failed to save announcement")
	}
	return &updated, nil
}

// DeleteAnnouncement removes an announcement once the caller has confirmed.
func (s *CalendarService) DeleteAnnouncement(ctx context.Context, actor models.Actor, id string, confirmed bool) error {
	if err := requireTeacher(actor); err != nil {
		return err
	}
	if !confirmed {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "deleting an announcement must be confirmed")
	}
	_, err := s.store.Announcements().Update(ctx, func(list []models.Announcement) ([]models.Announcement, error) {
		kept := make([]models.Announcement, 0, len(list))
		for _, a := range list {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(list) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return kept, nil
	})
	if err != nil {
		return passThrough(err, "failed to delete announcement")
	}
	s.logger.Info("announcement deleted", zap.String("announcement_id", id))
	return nil
}
