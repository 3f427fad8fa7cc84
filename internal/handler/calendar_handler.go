package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/service"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// CalendarHandler exposes the calendar views and the announcement board.
type CalendarHandler struct {
	service *service.CalendarService
	now     func() time.Time
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc, now: time.Now}
}

// Day godoc
// @Summary Events on a date
// @Tags Calendar
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/day [get]
func (h *CalendarHandler) Day(c *gin.Context) {
	date := c.DefaultQuery("date", h.now().Format("2006-01-02"))
	events, err := h.service.EventsOn(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}

// Month godoc
// @Summary Month grid
// @Tags Calendar
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "1-12, defaults to the current month"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	now := h.now()
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		response.Error(c, err)
		return
	}
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		response.Error(c, err)
		return
	}
	grid, err := h.service.MonthGrid(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid)
}

// ListAnnouncements godoc
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *CalendarHandler) ListAnnouncements(c *gin.Context) {
	list, err := h.service.ListAnnouncements(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// CreateAnnouncement godoc
// @Summary Post an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body models.AnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Router /announcements [post]
func (h *CalendarHandler) CreateAnnouncement(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.AnnouncementRequest
	if !bindJSON(c, &req, "invalid announcement payload") {
		return
	}
	ann, err := h.service.AddAnnouncement(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ann)
}

// UpdateAnnouncement godoc
// @Summary Edit an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param payload body models.AnnouncementRequest true "Announcement"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [put]
func (h *CalendarHandler) UpdateAnnouncement(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.AnnouncementRequest
	if !bindJSON(c, &req, "invalid announcement payload") {
		return
	}
	ann, err := h.service.UpdateAnnouncement(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ann)
}

// DeleteAnnouncement godoc
// @Summary Remove an announcement
// @Tags Announcements
// @Param id path string true "Announcement ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /announcements/{id} [delete]
func (h *CalendarHandler) DeleteAnnouncement(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAnnouncement(c.Request.Context(), actor, c.Param("id"), confirmed(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a number")
	}
	return v, nil
}
