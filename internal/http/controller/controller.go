package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/gin-gonic/gin"
)

// Controller handles general HTTP requests.
type Controller struct{}

// New creates a new Controller.
func New() *Controller {
	return &Controller{}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

// respondError maps a service error to an HTTP status. Expected error
// kinds carry their own message; anything else becomes a generic 500 so
// storage and broker details never reach the client.
func respondError(c *gin.Context, err error) {
	var validationErr *apperr.ValidationError
	var uploadErr *apperr.UploadError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, apperr.ErrInvalidFilter),
		errors.Is(err, apperr.ErrInvalidAction),
		errors.Is(err, apperr.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, apperr.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.As(err, &uploadErr):
		slog.Error("Media upload failed", slog.Any("err", err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed, try again"})
	default:
		slog.Error("Request failed", slog.String("path", c.Request.URL.Path), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
