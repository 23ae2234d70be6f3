package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPropertyNotFound is returned when a property is absent or soft-deleted.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrListingNotFound is returned when a listing is absent, soft-deleted, or
	// not owned by the caller. Ownership failures are deliberately reported the
	// same way so non-owners cannot probe for existence.
	ErrListingNotFound = errors.New("listing not found")
	// ErrReviewNotFound is returned when a review does not exist.
	ErrReviewNotFound = errors.New("review not found")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the entity exists but the caller lacks rights.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrReviewExists is returned when a user reviews the same property twice.
	ErrReviewExists = errors.New("you have already reviewed this property")
	// ErrUnauthorized is returned for missing, invalid, or expired credentials,
	// and for identity assertions that fail verification.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrEmailNotAllowed is returned when the verified email's domain is not in
	// the allow-list.
	ErrEmailNotAllowed = errors.New("email domain not allowed")
	// ErrInvalidOAuthState is returned for a malformed or mismatched OAuth
	// state/code exchange.
	ErrInvalidOAuthState = errors.New("invalid OAuth state or code")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrPropertyNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROPERTY_NOT_FOUND")
	case errors.Is(err, ErrListingNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LISTING_NOT_FOUND")
	case errors.Is(err, ErrReviewNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REVIEW_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrEmailNotAllowed):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_DOMAIN_NOT_ALLOWED")
	case errors.Is(err, ErrReviewExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "REVIEW_ALREADY_EXISTS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidOAuthState):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OAUTH_STATE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
