package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/middleware"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// DashboardHandler serves the landing views.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Get godoc
// @Summary Dashboard for the logged in role
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	dash, err := h.service.Get(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "role", actor.Role)
	response.JSON(c, http.StatusOK, dash, middleware.ExtractMeta(c))
}
