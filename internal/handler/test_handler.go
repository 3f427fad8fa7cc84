package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// TestHandler exposes weekly test results.
type TestHandler struct {
	service *service.TestService
}

// NewTestHandler constructs the handler.
func NewTestHandler(svc *service.TestService) *TestHandler {
	return &TestHandler{service: svc}
}

// List godoc
// @Summary List test results
// @Tags Tests
// @Produce json
// @Param studentId query string false "Student ID (teacher only)"
// @Success 200 {object} response.Envelope
// @Router /tests [get]
func (h *TestHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	views, err := h.service.List(c.Request.Context(), actor, c.Query("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Create godoc
// @Summary Record a test result
// @Tags Tests
// @Accept json
// @Produce json
// @Param payload body models.AddTestResultRequest true "Result"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tests [post]
func (h *TestHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.AddTestResultRequest
	if !bindJSON(c, &req, "invalid test result payload") {
		return
	}
	record, err := h.service.AddResult(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, models.TestResultView{TestRecord: *record, Percentage: service.PercentageFor(*record)})
}
