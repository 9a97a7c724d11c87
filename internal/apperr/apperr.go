package apperr

import "net/http"

// ValidationError is the single structured error raised by business logic.
// Its fields mirror the wire envelope, so handlers can serialize it as-is.
type ValidationError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func New(code int, status, message string) *ValidationError {
	return &ValidationError{Code: code, Status: status, Message: message}
}

func BadRequest(message string) *ValidationError {
	return New(http.StatusBadRequest, "Bad Request", message)
}

func Unauthorized(message string) *ValidationError {
	return New(http.StatusUnauthorized, "Unauthorized", message)
}

func Forbidden(message string) *ValidationError {
	return New(http.StatusForbidden, "Forbidden", message)
}

func NotFound(message string) *ValidationError {
	return New(http.StatusNotFound, "Not Found", message)
}

func Internal(message string) *ValidationError {
	return New(http.StatusInternalServerError, "Internal Server Error", message)
}
