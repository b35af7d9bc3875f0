package services

import (
	"fmt"
	"net/http"
	"time"
)

// DomainError is the transport-agnostic error shape returned by the service
// layer. Handlers map Status onto the HTTP response.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RateLimitDetails carries retry guidance for a rejected submission so a
// client can show a countdown.
type RateLimitDetails struct {
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func unauthorized(message string) *DomainError {
	return domainError(http.StatusUnauthorized, "unauthorized", message, nil)
}

func invalidArgument(message string) *DomainError {
	return domainError(http.StatusBadRequest, "invalid_argument", message, nil)
}

func notFound(message string) *DomainError {
	return domainError(http.StatusNotFound, "not_found", message, nil)
}

func rateLimited(message string, remaining int, resetAt time.Time) *DomainError {
	return domainError(http.StatusTooManyRequests, "rate_limited", message, RateLimitDetails{
		Remaining: remaining,
		ResetAt:   resetAt,
	})
}

func internalError(message string) *DomainError {
	return domainError(http.StatusInternalServerError, "internal", message, nil)
}
