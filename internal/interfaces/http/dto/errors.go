package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes directly
// (shared.DomainError.Code); the HTTP layer only maps them to status codes.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"

	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"

	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"

	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeInsufficientCredit = "INSUFFICIENT_CREDIT"
	ErrCodeInvalidBatch       = "INVALID_BATCH"
	ErrCodeSizeNotFound       = "SIZE_NOT_FOUND"
	ErrCodeIntegrityFailure   = "INTEGRITY_FAILURE"
	ErrCodePartialCompletion  = "PARTIAL_COMPLETION"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeInsufficientCredit: http.StatusUnprocessableEntity,
	ErrCodeInvalidBatch:       http.StatusUnprocessableEntity,

	// A missing size entry and a drifted product reference read as
	// missing-resource errors to the caller.
	ErrCodeSizeNotFound:     http.StatusNotFound,
	ErrCodeIntegrityFailure: http.StatusNotFound,

	ErrCodePartialCompletion: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
