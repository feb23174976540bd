package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// HandleAPIError maps an application error to its HTTP status and error envelope.
// Unknown errors are logged and reported without internal detail.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(RequestIDKey)).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.UserMessage(err, "Validation failed"))
		if details := apperrors.DetailsOf(err); len(details) > 0 {
			if field, ok := details["field"].(string); ok {
				detail.WithField(field)
			} else {
				detail.WithDetails(details)
			}
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrPasswordRequired):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.UserMessage(err, "Invalid request"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Session expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid session")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrInvalidOAuthState):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidOAuthState, "Sign-in request expired or was already used")
	case errors.Is(err, apperrors.ErrProviderExchange):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, apperrors.UserMessage(err, "Sign-in with the identity provider failed"))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.UserMessage(err, "Permission denied"))

	case errors.Is(err, apperrors.ErrProviderNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeProviderNotFound, "Unknown sign-in provider")
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound, apperrors.ErrCourseNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.UserMessage(err, "Resource not found"))

	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.UserMessage(err, "Resource already exists"))

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
