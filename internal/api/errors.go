package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/tmercier/boutique-api/internal/api/shared"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/service/auth"
	"github.com/tmercier/boutique-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// Duplicate email registration is part of the validation taxonomy here, so
// it maps to 400 rather than 409.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	// Authorization errors
	case errors.Is(err, domain.ErrForbidden):
		return "Administrator privileges required"

	// Not found errors
	case errors.Is(err, store.ErrUtilisateurNotFound):
		return "User not found"

	case errors.Is(err, store.ErrProduitNotFound):
		return "Product not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Validation errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		isDomainValidationError(err):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether err is one of the entity-level
// validation sentinels raised by the domain constructors.
func isDomainValidationError(err error) bool {
	validationErrors := []error{
		domain.ErrEmptyNom,
		domain.ErrNomTooLong,
		domain.ErrInvalidPrix,
		domain.ErrInvalidQuantite,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrEmptyNomUtilisateur,
		domain.ErrNomUtilisateurLong,
		domain.ErrEmptyPassword,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
	}
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ValidationDetails extracts per-field messages from a validator error,
// keyed by the JSON wire name. Returns nil when err carries no field-level
// information.
func ValidationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		details[fieldError.Field()] = validationTagMessage(fieldError)
	}
	return details
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Must be at least " + fieldError.Param() + " characters long"
	case "max":
		return "Must be at most " + fieldError.Param() + " characters long"
	case "gt":
		return "Must be greater than " + fieldError.Param()
	case "gte":
		return "Must be at least " + fieldError.Param()
	default:
		return "Invalid value"
	}
}

// RespondWithMappedError maps err to the status code and sanitized message
// of the error taxonomy and writes the response, logging the full error.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// RespondWithValidationError writes a 400 response carrying field-level
// details when err is a validator error, or the sanitized message otherwise.
func RespondWithValidationError(w http.ResponseWriter, r *http.Request, err error) {
	if details := ValidationDetails(err); details != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, "Validation error", details)
		return
	}
	RespondWithMappedError(w, r, err)
}
