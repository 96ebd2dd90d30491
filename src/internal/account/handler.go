package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	DeleteOwnAccount(c *gin.Context)
	DeleteUser(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

// DeleteOwnAccount deletes the authenticated caller.
func (h *handler) DeleteOwnAccount(c *gin.Context) {
	userID := c.GetString("user_id")
	h.deleteAccount(c, userID)
}

// DeleteUser deletes the account named in the path; admin only.
func (h *handler) DeleteUser(c *gin.Context) {
	logrus.WithFields(logrus.Fields{
		"admin_user_id": c.GetString("user_id"),
		"target_id":     c.Param("id"),
	}).Info("Admin account deletion requested")

	h.deleteAccount(c, c.Param("id"))
}

func (h *handler) deleteAccount(c *gin.Context, userID string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	if userID == "" {
		h.sendErrorResponse(c, http.StatusBadRequest, "User ID is required", "Please provide a valid user ID")
		return
	}

	result, err := h.service.DeleteAccount(ctx, userID)
	if err != nil {
		h.handleDeleteError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "Account deleted successfully",
	})
}

func (h *handler) handleDeleteError(c *gin.Context, userID string, err error) {
	logrus.WithError(err).WithField("user_id", userID).Error("Failed to delete account")

	switch {
	case errors.Is(err, models.ErrUserNotFound):
		h.sendErrorResponse(c, http.StatusNotFound, "User not found", "No user found with the provided ID")
	case errors.Is(err, models.ErrInvalidParams):
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid user ID", "Please provide a valid user ID")
	default:
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to delete account", err.Error())
	}
}

func (h *handler) sendErrorResponse(c *gin.Context, statusCode int, error, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   error,
		"message": message,
	})
}
