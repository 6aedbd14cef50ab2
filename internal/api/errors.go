package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/textsource"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/auth"
	"github.com/phrazzld/lingua-api/internal/service/study"
	"github.com/phrazzld/lingua-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never decide the response on their own.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case errors.Is(err, study.ErrNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, study.ErrConcurrentModification),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, study.ErrInvalidAction),
		errors.Is(err, service.ErrEmptySource),
		errors.Is(err, service.ErrConflictingSources),
		errors.Is(err, textsource.ErrInvalidURL),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, textsource.ErrFetchFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that does not
// leak internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"

	case errors.Is(err, study.ErrNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrVocabularyItemNotFound):
		return "Word not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, study.ErrConcurrentModification):
		return "The word was modified concurrently, please retry"
	case errors.Is(err, store.ErrDuplicate):
		return "Word already exists"

	case errors.Is(err, study.ErrInvalidAction):
		return "Unknown action, expected know, dont_know or remove"
	case errors.Is(err, service.ErrEmptySource):
		return "Either url or text is required"
	case errors.Is(err, service.ErrConflictingSources):
		return "Provide either url or text, not both"
	case errors.Is(err, textsource.ErrInvalidURL):
		return "Invalid URL"
	case errors.Is(err, textsource.ErrFetchFailed):
		return "Failed to fetch the page"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid word ID"
	case errors.Is(err, domain.ErrValidation):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return "Validation error"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a request validation failure into a short
// message naming the first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "url", "http_url":
		return "invalid URL format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. fallback replaces the generic
// message of unmapped (500) errors when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
