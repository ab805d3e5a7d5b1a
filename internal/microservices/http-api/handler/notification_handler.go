package handler

import (
	"net/http"

	"animelog/internal/microservices/http-api/dto"
	"animelog/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications/settings", h.Settings)
	rg.PUT("/notifications/settings", h.UpdateSettings)
	rg.POST("/notifications/test", h.SendTest)
	rg.POST("/push/subscriptions", h.Subscribe)
	rg.DELETE("/push/subscriptions", h.Unsubscribe)
}

func (h *NotificationHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/push/public-key", h.PublicKey)
}

func (h *NotificationHandler) Settings(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.svc.Settings(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	var req dto.NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.svc.UpdateSettings(ctx, userID, req.Enabled, req.MinutesBefore)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	var req dto.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sub, err := h.svc.Subscribe(ctx, userID, service.SubscriptionInput{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Unsubscribe(ctx, userID, req.Endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) SendTest(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	delivered, err := h.svc.SendTest(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivered": delivered})
}

// PublicKey returns the VAPID key browsers subscribe with.
func (h *NotificationHandler) PublicKey(c *gin.Context) {
	key := h.svc.PublicKey()
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": key})
}
