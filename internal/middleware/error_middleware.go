package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.Message(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrSignatureInvalid):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeSignatureInvalid, "Webhook Error: signature verification failed")
	case errors.Is(err, apperrors.ErrCheckoutDeclined):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeCheckoutDeclined, "Error while creating session")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.Message(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, apperrors.Message(err, "Bad request"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.Message(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Incorrect email or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.Message(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Internal Server Error")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
