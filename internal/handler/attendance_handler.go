package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// AttendanceHandler exposes attendance marking.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance
// @Description Students only receive their own records. With studentId and date the resolved status is returned in meta.
// @Tags Attendance
// @Produce json
// @Param studentId query string false "Student ID"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	filter := models.AttendanceFilter{StudentID: c.Query("studentId"), Date: c.Query("date")}
	records, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if filter.StudentID != "" && filter.Date != "" {
		status, err := h.service.StatusFor(c.Request.Context(), actor, filter.StudentID, filter.Date)
		if err != nil {
			response.Error(c, err)
			return
		}
		meta = map[string]interface{}{"status": status}
	}
	response.JSON(c, http.StatusOK, records, meta)
}

// Roll godoc
// @Summary Daily roll
// @Tags Attendance
// @Produce json
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/roll [get]
func (h *AttendanceHandler) Roll(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	roll, err := h.service.Roll(c.Request.Context(), actor, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roll)
}

// Toggle godoc
// @Summary Toggle a student's status for a day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.ToggleAttendanceRequest true "Student and date"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/toggle [post]
func (h *AttendanceHandler) Toggle(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.ToggleAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	record, err := h.service.Toggle(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}
