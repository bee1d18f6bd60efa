package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
)

const stackKey = "stack"

// ErrorHandler renders the last error attached to the context as the
// standard failure envelope. Handlers only call c.Error and return.
func ErrorHandler(log *zap.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := Classify(err)

		resp := models.ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		}

		if appErr.Kind == apperror.KindInternal {
			fields := []zap.Field{
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			}
			stack := c.GetString(stackKey)
			if stack != "" {
				fields = append(fields, zap.String("stack", stack))
			}
			log.Error("unhandled error", fields...)

			if !production {
				resp.Stack = stack
				if resp.Stack == "" {
					resp.Stack = err.Error()
				}
			}
		}

		c.AbortWithStatusJSON(appErr.Status, resp)
	}
}

// Classify maps any error onto the taxonomy: operational errors pass
// through, store errors become their nearest kind, everything else is
// Internal.
func Classify(err error) *apperror.Error {
	if ae, ok := apperror.As(err); ok {
		return ae
	}
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		return apperror.Wrap(err, apperror.KindNotFound, "Resource not found")
	case errors.Is(err, repository.ErrDuplicateKey):
		return apperror.Wrap(err, apperror.KindConflict, "Duplicate field value entered")
	case errors.Is(err, repository.ErrConstraint):
		return apperror.Wrap(err, apperror.KindInvalidArgument, "Invalid input data")
	}
	return apperror.Internal(err)
}

// NotFound is the fallback for unmatched routes.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Message: "Not found - " + c.Request.URL.Path,
	})
}
