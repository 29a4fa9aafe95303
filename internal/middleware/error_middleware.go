package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Client mistakes
// land in the 4xx range; anything unrecognized is a 500 and gets logged.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}

	respond := func(status int, code dto.ErrorCode, fallback string) {
		if message == "" {
			message = fallback
		}
		c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
	}

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrAssociationNotFound),
		errors.Is(err, apperrors.ErrCampaignNotFound),
		errors.Is(err, apperrors.ErrDonationNotFound),
		errors.Is(err, apperrors.ErrRequestNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrAssociationAlreadyExists),
		errors.Is(err, apperrors.ErrDuplicateTransactionID),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrRequestAlreadyProcessing):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource conflict")

	case errors.Is(err, apperrors.ErrInvalidStatusTransition):
		respond(http.StatusConflict, dto.ErrorCodeInvalidRequest, "Invalid status transition")

	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed")

	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidFormat),
		errors.Is(err, apperrors.ErrNoAssociationForUser):
		respond(http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Invalid request")

	case errors.Is(err, apperrors.ErrFileTooLarge):
		respond(http.StatusRequestEntityTooLarge, dto.ErrorCodeFileTooLarge, "File exceeds the size limit")

	case errors.Is(err, apperrors.ErrUnsupportedFileType):
		respond(http.StatusBadRequest, dto.ErrorCodeUnsupportedFile, "Unsupported file type")

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		message = ""
		respond(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// HandleValidationError maps request binding failures to a 400 with the
// offending fields attached
func HandleValidationError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, formatValidationError(fe))
		}
		detail = detail.WithDetails(details)
	} else {
		detail = detail.WithDetails(err.Error())
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
