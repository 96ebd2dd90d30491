package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"customer-portal-svc/src/internal/cache"
	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ClientIDHeader carries the random UUID a browser generates on its first visit.
const ClientIDHeader = "X-Client-ID"

// StoreFactory opens the state store of a client in the given scope.
type StoreFactory func(clientID string, scope cache.Scope) Store

// AuthFactory returns the identity session behind an access token, which may be empty.
type AuthFactory func(accessToken string) AuthBackend

type ActivityPublisher interface {
	PublishActivity(message models.ActivityMessage) error
}

type Handler interface {
	Check(c *gin.Context)
	GetState(c *gin.Context)
	PutState(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	stores    StoreFactory
	auth      AuthFactory
	publisher ActivityPublisher
}

func NewHandler(cfg *config.Configuration, stores StoreFactory, auth AuthFactory, publisher ActivityPublisher) Handler {
	return &handler{
		config:    cfg,
		stores:    stores,
		auth:      auth,
		publisher: publisher,
	}
}

type putStateRequest struct {
	Value *string `json:"value" binding:"required"`
}

// Check runs the expiry policy for the calling client. Called once by the
// application shell before it renders.
func (h *handler) Check(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	checker := NewChecker(
		h.stores(clientID, cache.ScopeDurable),
		h.stores(clientID, cache.ScopeSession),
		h.auth(bearerToken(c)),
		WithThreshold(time.Duration(h.config.Cache.SessionStaleAfterHours)*time.Hour),
		WithLogger(logrus.WithField("client_id", clientID)),
	)

	cleared := checker.Check(ctx)

	action := models.ActionSessionCheck
	if cleared {
		action = models.ActionSessionCleared
	}
	h.publish(c, clientID, action)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"cleared": cleared},
	})
}

func (h *handler) GetState(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	store, ok := h.scopedStore(c, clientID)
	if !ok {
		return
	}

	key := c.Param("key")
	value, found, err := store.Get(c.Request.Context(), key)
	if err != nil {
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to read state", err.Error())
		return
	}
	if !found {
		h.sendErrorResponse(c, http.StatusNotFound, "State not found", models.ErrStateKeyNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"key": key, "value": value},
	})
}

func (h *handler) PutState(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	store, ok := h.scopedStore(c, clientID)
	if !ok {
		return
	}

	var req putStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	key := c.Param("key")
	if key == LastActivityKey {
		h.sendErrorResponse(c, http.StatusForbidden, "Reserved state key", models.ErrReservedStateKey.Error())
		return
	}

	if err := store.Set(c.Request.Context(), key, *req.Value); err != nil {
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to write state", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"key": key, "value": *req.Value},
	})
}

func (h *handler) clientID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.GetHeader(ClientIDHeader)))
	if err != nil || id == uuid.Nil {
		h.sendErrorResponse(c, http.StatusBadRequest, "Client ID is required", models.ErrMissingClientID.Error())
		return "", false
	}
	return id.String(), true
}

func (h *handler) scopedStore(c *gin.Context, clientID string) (Store, bool) {
	scope, err := cache.ParseScope(c.Query("scope"))
	if err != nil {
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid scope", err.Error())
		return nil, false
	}
	return h.stores(clientID, scope), true
}

func (h *handler) publish(c *gin.Context, clientID, action string) {
	if h.publisher == nil {
		return
	}

	err := h.publisher.PublishActivity(models.ActivityMessage{
		ClientID:    clientID,
		ServiceName: models.ServicePortalSession,
		Action:      action,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		logrus.WithError(err).WithField("client_id", clientID).Warn("Failed to publish session activity")
	}
}

func (h *handler) sendErrorResponse(c *gin.Context, statusCode int, error, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   error,
		"message": message,
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
