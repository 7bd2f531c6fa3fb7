package models

import (
	"fmt"
	"net/http"
)

// Error codes used in internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUpstream     = "UPSTREAM_FAILED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Caller-facing messages. These are part of the HTTP contract.
const (
	MsgURLRequired    = "URL is required"
	MsgInvalidAPIKey  = "Invalid API key. Please check your Firecrawl API key."
	MsgForbidden      = "Access forbidden. Please check your API key permissions."
	MsgRateLimited    = "Rate limit exceeded. Please try again later."
	MsgScrapeFailed   = "Scraping failed: "
	MsgUnknownError   = "Unknown error"
	MsgInternal       = "Internal server error"
	MsgRunNotFound    = "Run not found"
	MsgRunInterrupted = "Run interrupted before completion"
	MsgInvalidPayload = "Invalid request body"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// Status translates the error code to an HTTP status code.
func (e *ScrapeError) Status() int {
	switch e.Code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case ErrCodeForbidden:
		return http.StatusForbidden // 403
	case ErrCodeNotFound:
		return http.StatusNotFound // 404
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
