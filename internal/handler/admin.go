package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"academy/internal/admin"
	"academy/internal/attendance"
)

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin authenticates an admin and returns a session token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, acct, err := h.admins.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, admin.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, admin.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.WithError(err).Error("admin login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "login successful",
		"token":      token.Value,
		"expires_at": token.ExpiresAt.Unix(),
		"admin":      acct,
	})
}

// ListApplications returns all enrollment applications.
func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.admins.Applications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if apps == nil {
		apps = []admin.Application{}
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplication sets an application's status.
func (h *Handler) UpdateApplication(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.admins.SetApplicationStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "application status updated"})
}

type recordAttendanceRequest struct {
	StudentID    string `json:"student_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Timing       string `json:"timing"`
	Status       string `json:"status" binding:"required"`
	SessionLabel string `json:"session_name"`
}

// RecordAttendance inserts a session for a student and reports whether
// a milestone was reached.
func (h *Handler) RecordAttendance(c *gin.Context) {
	var req recordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.attendance.Record(c.Request.Context(), attendance.Record{
		StudentID:    req.StudentID,
		Date:         req.Date,
		Timing:       req.Timing,
		Status:       req.Status,
		SessionLabel: req.SessionLabel,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "attendance marked successfully",
		"milestone_reached": res.MilestoneReached,
		"total_sessions":    res.TotalSessions,
		"attendance":        res.Record,
	})
}

// UpdateAttendance corrects a stored record's status.
func (h *Handler) UpdateAttendance(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.attendance.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attendance record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance updated"})
}

type addFeedbackRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Feedback  string `json:"feedback" binding:"required"`
}

// AddFeedback stores a feedback note for a student.
func (h *Handler) AddFeedback(c *gin.Context) {
	var req addFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.admins.AddFeedback(c.Request.Context(), req.StudentID, req.Feedback)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "feedback added", "feedback": fb})
}

type updateFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// UpdateFeedback replaces a feedback note's text.
func (h *Handler) UpdateFeedback(c *gin.Context) {
	var req updateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.admins.SetFeedback(c.Request.Context(), c.Param("id"), req.Feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feedback updated"})
}
