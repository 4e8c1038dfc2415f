package handlers

import (
	"errors"
	"net/http"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"
	"organicstore-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrEmptyCart),
		errors.Is(err, apperr.ErrInvalidStatus):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("unhandled error", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser pulls the authenticated caller out of the request context.
func currentUser(c *gin.Context) (uint, bool) {
	return utils.GetUserIDFromContext(c.Request.Context())
}

func isAdmin(c *gin.Context) bool {
	return utils.IsAdminFromContext(c.Request.Context())
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ToUint(c.Param(name))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryPagination(c *gin.Context) (limit, page *int32) {
	if raw := c.Query("limit"); raw != "" {
		if n, err := utils.ToUint(raw); err == nil {
			v := int32(n)
			limit = &v
		}
	}
	if raw := c.Query("page"); raw != "" {
		if n, err := utils.ToUint(raw); err == nil {
			v := int32(n)
			page = &v
		}
	}
	return limit, page
}
