package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexticket/internal/apperr"
	"nexticket/internal/logger"
	"nexticket/internal/middleware"
	"nexticket/internal/models"
	"nexticket/internal/service"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// actor returns the authenticated email, empty for anonymous requests.
func actor(c *gin.Context) string {
	email, _ := middleware.EmailFromContext(c.Request.Context())
	return email
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, models.Response{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Kind.HTTPStatus(), models.Response{Success: false, Message: ae.Msg})
		return
	}

	logger.WithContext(c.Request.Context()).Error("Request failed",
		"error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, models.Response{
		Success: false,
		Message: "Something went wrong",
	})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: err.Error()})
}
