package handler

import (
	"context"
	"net/http"
	"time"

	"animelog/internal/apperr"
	"animelog/internal/microservices/http-api/middleware"
	"animelog/internal/microservices/http-api/storage"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError writes {"error": "..."} with the status of the error's kind.
// Internal errors are not echoed to the client.
func respondError(c *gin.Context, err error) {
	ae := apperr.Normalize(err)
	_ = c.Error(err)
	status := apperr.HTTPStatus(ae.Kind)
	msg := ae.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// ownerStore returns the store set by the identity middleware.
func ownerStore(c *gin.Context) (storage.Store, bool) {
	st := middleware.Store(c)
	if st == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return nil, false
	}
	return st, true
}

func hostedUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	}
	return userID, ok
}
