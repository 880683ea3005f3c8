package handler

import (
	"github.com/gin-gonic/gin"

	"academy/internal/admin"
	"academy/internal/attendance"
	"academy/internal/auth"
	"academy/internal/contact"
	"academy/internal/payment"
	"academy/internal/student"
)

// Handler exposes the portal's HTTP endpoints over the domain services.
type Handler struct {
	otps       *student.Service
	attendance *attendance.Service
	admins     *admin.Service
	contact    *contact.Service
	payments   *payment.Service
}

// New creates a handler.
func New(otps *student.Service, att *attendance.Service, admins *admin.Service, contactSvc *contact.Service, payments *payment.Service) *Handler {
	return &Handler{
		otps:       otps,
		attendance: att,
		admins:     admins,
		contact:    contactSvc,
		payments:   payments,
	}
}

// Register mounts all API routes. signingKey and issuer configure the
// bearer-token middleware on the protected groups.
func (h *Handler) Register(r *gin.Engine, signingKey, issuer string) {
	api := r.Group("/api")

	api.POST("/admin/login", h.AdminLogin)

	adminGroup := api.Group("/admin", auth.RequireRole(signingKey, issuer, auth.RoleAdmin))
	adminGroup.GET("/applications", h.ListApplications)
	adminGroup.PUT("/applications/:id", h.UpdateApplication)
	adminGroup.POST("/attendance", h.RecordAttendance)
	adminGroup.PUT("/attendance/:id", h.UpdateAttendance)
	adminGroup.POST("/feedback", h.AddFeedback)
	adminGroup.PUT("/feedback/:id", h.UpdateFeedback)

	api.POST("/student/send-otp", h.SendOTP)
	api.POST("/student/verify-otp", h.VerifyOTP)

	studentGroup := api.Group("/student", auth.RequireRole(signingKey, issuer, auth.RoleStudent))
	studentGroup.GET("/attendance", h.MyAttendance)

	api.POST("/payment/create-order", h.CreateOrder)
	api.POST("/payment/verify-payment", h.VerifyPayment)

	api.POST("/contact/submit", h.SubmitContact)
}
