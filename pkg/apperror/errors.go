package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Settlement Business Logic (PAY) ----

func ErrInvalidAmount(err error) *AppError {
	return Wrap("PAY_001", "Invalid settlement amount", http.StatusBadRequest, err)
}

func ErrTransferFailed(err error) *AppError {
	return Wrap("PAY_002", "Funds transfer failed", http.StatusBadGateway, err)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidParticipant(message string) *AppError {
	return New("PAY_004", message, http.StatusBadRequest)
}

// ---- Identity Registration (REG) ----

func ErrRegistrationFailed(err error) *AppError {
	return Wrap("REG_001", "Registration submission rejected", http.StatusBadGateway, err)
}

// ErrRegistrationAmbiguous signals that the registration transaction may have
// succeeded but the assigned identifier could not be determined after
// exhausting every fallback path.
func ErrRegistrationAmbiguous(attempts int) *AppError {
	return New("REG_002",
		fmt.Sprintf("Assigned identifier unresolved after %d direct-query attempts", attempts),
		http.StatusBadGateway)
}

// ---- Evidence Storage (EVD) ----

func ErrEvidenceStoreFailure(err error) *AppError {
	return Wrap("EVD_001", "Evidence store failure", http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrAgentNameExists() *AppError {
	return New("AUTH_002", "Agent name already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAgentSuspended() *AppError {
	return New("AUTH_004", "Agent is suspended", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-validation error.
func Validation(message string) *AppError {
	return New("PAY_001", message, http.StatusBadRequest)
}
