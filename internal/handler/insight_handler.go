package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/middleware"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// InsightHandler serves generated performance summaries.
type InsightHandler struct {
	service *service.InsightService
}

// NewInsightHandler constructs the handler.
func NewInsightHandler(svc *service.InsightService) *InsightHandler {
	return &InsightHandler{service: svc}
}

// Get godoc
// @Summary Performance summary for a student
// @Description Falls back to a fixed message when generation is unavailable.
// @Tags Insights
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /insights/{studentId} [get]
func (h *InsightHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	result, err := h.service.ForStudent(c.Request.Context(), actor, c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}
