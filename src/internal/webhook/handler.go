package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler interface {
	ReplayTest(c *gin.Context)
	Receive(c *gin.Context)
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

// ReplayTest sends the sample event and echoes what the receiver answered.
func (h *handler) ReplayTest(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	logrus.WithField("user_id", c.GetString("user_id")).Info("Test webhook replay requested")

	result, err := h.service.Replay(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to replay test webhook")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Failed to deliver test webhook",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.OK(),
		"data":    result,
	})
}

func (h *handler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.sendErrorResponse(c, http.StatusBadRequest, "Failed to read body", err.Error())
		return
	}

	event, err := h.service.Receive(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	if err != nil {
		logrus.WithError(err).Warn("Rejected webhook")

		switch {
		case errors.Is(err, models.ErrInvalidSignature):
			h.sendErrorResponse(c, http.StatusUnauthorized, "Invalid signature", err.Error())
		case errors.Is(err, models.ErrInvalidPayload):
			h.sendErrorResponse(c, http.StatusBadRequest, "Invalid payload", err.Error())
		default:
			h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to process webhook", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"received": true,
		"id":       event.ID,
	})
}

func (h *handler) sendErrorResponse(c *gin.Context, statusCode int, error, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   error,
		"message": message,
	})
}
