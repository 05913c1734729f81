package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/apperrors"
	"github.com/pageza/cookbook/backend/internal/metrics"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code      apperrors.Code `json:"code"`
	Error     string         `json:"error"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ErrorHandler renders the last error attached with c.Error as an
// ErrorResponse and turns panics into a 500. Handlers report failures with
// c.Error and return without writing a body.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.PanicRecoveries.Inc()
				logger.Error("panic recovered",
					"request_id", GetRequestID(c),
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()))
				if !c.Writer.Written() {
					writeError(c, apperrors.New(apperrors.CodeInternal, "internal server error"))
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if status := apperrors.HTTPStatus(err); status >= http.StatusInternalServerError {
			logger.Error("request failed", "request_id", GetRequestID(c), "error", err)
		}
		writeError(c, err)
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), ErrorResponse{
		Code:      apperrors.CodeOf(err),
		Error:     apperrors.PublicMessage(err),
		Details:   apperrors.DetailsOf(err),
		RequestID: GetRequestID(c),
	})
}
