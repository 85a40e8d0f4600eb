package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andresuchdata/salescast/backend-go/internal/api/middleware"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func currentUser(c *gin.Context) int64 {
	return c.GetInt64(middleware.UserIDKey)
}

// pathID parses a positive numeric path parameter, writing a 400 when it is
// malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidHorizon),
		errors.Is(err, domain.ErrNoValidRows):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSalesHistory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
