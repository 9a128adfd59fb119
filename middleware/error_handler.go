// Package middleware provides gin middleware for the HTTP boundary.
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xpress-inn/feedback-api/errors"
	"github.com/xpress-inn/feedback-api/logger"
	"github.com/xpress-inn/feedback-api/types"
)

// ErrorHandler translates errors attached to the gin context into the
// JSON response envelope. Internal detail is logged, never returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appError *apperrors.AppError
		if errors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			c.JSON(statusCode, types.APIResponse{
				Success: false,
				Message: appError.Message,
			})
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")

			c.JSON(http.StatusBadRequest, types.APIResponse{
				Success: false,
				Message: "Invalid request body",
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")

		c.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Message: "Internal server error",
		})
	}
}
