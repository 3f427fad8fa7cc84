package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

// PaymentHandler exposes the fee ledger, proof review, exports and reminders.
type PaymentHandler struct {
	payments  *service.PaymentService
	exports   *service.ExportService
	reminders *service.ReminderService
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(payments *service.PaymentService, exports *service.ExportService, reminders *service.ReminderService) *PaymentHandler {
	return &PaymentHandler{payments: payments, exports: exports, reminders: reminders}
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param studentId query string false "Student ID (teacher only)"
// @Param status query string false "SUCCESS, PENDING or FAILED"
// @Param page query int false "Page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	filter := models.PaymentFilter{StudentID: c.Query("studentId"), Status: models.PaymentStatus(c.Query("status"))}
	payments, err := h.payments.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, limit := pageParams(c)
	rows, pagination := paginate(payments, page, limit)
	response.Paginated(c, http.StatusOK, rows, pagination)
}

// Summary godoc
// @Summary Fee progress and revenue
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payments/summary [get]
func (h *PaymentHandler) Summary(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	summary, err := h.payments.Summary(c.Request.Context(), actor, c.Query("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Create godoc
// @Summary Submit a payment for review
// @Description The payment is stored as PENDING together with its proof screenshot.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.RecordPaymentRequest true "Payment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.RecordPaymentRequest
	if !bindJSON(c, &req, "invalid payment payload") {
		return
	}
	record, err := h.payments.RecordPayment(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Approve godoc
// @Summary Approve a pending payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments/{id}/approve [post]
func (h *PaymentHandler) Approve(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	record, err := h.payments.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Delinquents godoc
// @Summary Students with unpaid fees
// @Tags Payments
// @Produce json
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /payments/delinquents [get]
func (h *PaymentHandler) Delinquents(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	students, err := h.payments.Delinquents(c.Request.Context(), actor, c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.WithTelLinks(students))
}

// Export godoc
// @Summary Download the transaction history
// @Tags Payments
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx"
// @Param studentId query string false "Student ID (teacher only)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	file, err := h.exports.Payments(c.Request.Context(), actor, c.Query("studentId"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Remind godoc
// @Summary Send automated fee reminders
// @Description Without studentId every delinquent student of the month is reminded.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.ReminderRequest false "Target"
// @Success 202 {object} response.Envelope
// @Router /payments/reminders [post]
func (h *PaymentHandler) Remind(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.ReminderRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid reminder payload") {
		return
	}
	result, err := h.reminders.Send(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if result.Queued {
		status = http.StatusAccepted
	}
	response.JSON(c, status, result)
}
