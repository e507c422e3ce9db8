package common

import (
	"encoding/json"
	"net/http"
	"vidtube-api/logger"

	"github.com/sirupsen/logrus"
)

// AppError is the only failure shape that ever reaches the wire. Err holds
// the internal cause for logging and is never serialized.
type AppError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		StatusCode: code,
		Message:    message,
		Success:    false,
		Err:        err,
	}
}

func NewValidationError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

// NewInvalidTokenError covers bad signature, expiry, reuse and unknown
// subject. Callers pass the internal cause for logging but the wire message
// stays uniform so token failures are not distinguishable from outside.
func NewInvalidTokenError(err error) *AppError {
	return NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
}

func NewConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func NewInternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.StatusCode,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.StatusCode)
	json.NewEncoder(w).Encode(e)
}
