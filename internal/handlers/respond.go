package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/middleware"
)

// respondError maps a service error onto an HTTP status and writes the
// standard envelope. Unexpected errors are logged and hidden behind a
// generic message.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	message := err.Error()
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
			status = appErr.Code
		}
		if status == http.StatusInternalServerError {
			logger.Error("Unhandled service error", slog.String("error", err.Error()), slog.String("path", c.FullPath()))
			message = "internal server error"
		}
	}

	c.JSON(status, dto.NewErrorResponse(message, nil))
}

// respondBindError writes a 400 for malformed request bodies or query params.
func respondBindError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind request", slog.String("error", err.Error()), slog.String("path", c.FullPath()))
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request format", err.Error()))
}

// mustUserID pulls the authenticated user ID set by the auth middleware. It
// writes a 401 and returns false when absent.
func mustUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized", nil))
		return "", false
	}
	return userID, true
}

// orgID pulls the organization path parameter.
func orgID(c *gin.Context) string {
	return c.Param("org_id")
}
