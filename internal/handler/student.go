package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"academy/internal/attendance"
	"academy/internal/auth"
	"academy/internal/student"
)

type sendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendOTP issues a fresh login code for an existing student account.
func (h *Handler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	err := h.otps.Issue(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	case errors.Is(err, student.ErrTooManySends):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many otp requests, try again later"})
		return
	case errors.Is(err, student.ErrMailFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send otp email"})
		return
	case err != nil:
		log.WithError(err).Error("otp issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save otp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "otp sent successfully"})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP checks the code and returns a session token plus profile.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and otp are required"})
		return
	}

	token, st, err := h.otps.Verify(c.Request.Context(), req.Email, req.OTP)
	switch {
	case errors.Is(err, student.ErrOTPNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "otp not found"})
		return
	case errors.Is(err, student.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "otp expired"})
		return
	case errors.Is(err, student.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid otp"})
		return
	case err != nil:
		log.WithError(err).Error("otp verify failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "login successful",
		"token":      token.Value,
		"expires_at": token.ExpiresAt.Unix(),
		"student":    st,
	})
}

// MyAttendance returns the authenticated student's session history.
func (h *Handler) MyAttendance(c *gin.Context) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.attendance.History(c.Request.Context(), claims.Subject, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": records})
}
