package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"academy/internal/contact"
)

type contactRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Subject          string `json:"subject" binding:"required"`
	Message          string `json:"message" binding:"required"`
	PreferredContact string `json:"preferred_contact" binding:"omitempty,oneof=email phone whatsapp"`
}

// SubmitContact validates, stores and forwards a contact-form message.
// Validation rejects before any store or mail call.
func (h *Handler) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields: name, email, subject, message are required; preferred_contact must be email, phone or whatsapp"})
		return
	}

	stored, err := h.contact.Submit(c.Request.Context(), contact.Message{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Subject:          req.Subject,
		Message:          req.Message,
		PreferredContact: req.PreferredContact,
	})
	switch {
	case errors.Is(err, contact.ErrMailFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "email sending failed"})
		return
	case err != nil:
		log.WithError(err).Error("contact submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save contact message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "contact message submitted successfully",
		"data":    stored,
	})
}
