package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/middleware"
	"github.com/noah-isme/rcc-portal/internal/models"
)

// Handlers groups every HTTP handler of the portal.
type Handlers struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Tests      *TestHandler
	Payments   *PaymentHandler
	Messages   *MessageHandler
	Calendar   *CalendarHandler
	Schedule   *ScheduleHandler
	Students   *StudentHandler
	Dashboard  *DashboardHandler
	Insights   *InsightHandler
	Metrics    *MetricsHandler
}

// Register mounts probes at the root and the API below prefix.
func Register(r *gin.Engine, prefix string, h Handlers, auth middleware.Authenticator) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)
	secured.GET("/dashboard", middleware.WithResponseMeta(), h.Dashboard.Get)

	secured.GET("/attendance", h.Attendance.List)
	secured.GET("/attendance/roll", teacherOnly, h.Attendance.Roll)
	secured.POST("/attendance/toggle", teacherOnly, h.Attendance.Toggle)

	secured.GET("/tests", h.Tests.List)
	secured.POST("/tests", teacherOnly, h.Tests.Create)

	secured.GET("/payments", h.Payments.List)
	secured.POST("/payments", h.Payments.Create)
	secured.GET("/payments/summary", h.Payments.Summary)
	secured.GET("/payments/export", h.Payments.Export)
	secured.GET("/payments/delinquents", teacherOnly, h.Payments.Delinquents)
	secured.POST("/payments/reminders", teacherOnly, h.Payments.Remind)
	secured.POST("/payments/:id/approve", teacherOnly, h.Payments.Approve)

	secured.GET("/messages", h.Messages.Inbox)
	secured.POST("/messages", h.Messages.Send)
	secured.GET("/messages/:userId", h.Messages.Conversation)
	secured.POST("/messages/:userId/read", h.Messages.MarkRead)

	secured.GET("/calendar/day", h.Calendar.Day)
	secured.GET("/calendar/month", h.Calendar.Month)

	secured.GET("/announcements", h.Calendar.ListAnnouncements)
	secured.POST("/announcements", teacherOnly, h.Calendar.CreateAnnouncement)
	secured.PUT("/announcements/:id", teacherOnly, h.Calendar.UpdateAnnouncement)
	secured.DELETE("/announcements/:id", teacherOnly, h.Calendar.DeleteAnnouncement)

	secured.GET("/schedule", h.Schedule.List)
	secured.POST("/schedule", teacherOnly, h.Schedule.Create)
	secured.PUT("/schedule/:id", teacherOnly, h.Schedule.Update)

	secured.GET("/students", teacherOnly, h.Students.List)
	secured.POST("/students", teacherOnly, h.Students.Create)
	secured.GET("/students/:id", middleware.RBAC(string(models.RoleTeacher), middleware.SelfRole), h.Students.Get)
	secured.PUT("/students/:id", teacherOnly, h.Students.Update)
	secured.DELETE("/students/:id", teacherOnly, h.Students.Delete)

	secured.GET("/insights/:studentId", middleware.WithResponseMeta(), h.Insights.Get)
}
