package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors, unexpected 1xx/3xx
	// answers and unreadable bodies.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 answers and an exhausted local budget.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// UpstreamError represents a failed PokeAPI request.
type UpstreamError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Class      ErrorClass
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("PokeAPI %s error (status %d) on %s: %s: %v",
			e.Class, e.StatusCode, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("PokeAPI %s error (status %d) on %s: %s",
		e.Class, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an UpstreamError carrying the given status code.
func IsStatus(err error, statusCode int) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == statusCode
}

// ClassOf returns the class of an UpstreamError, or "" for any other error.
func ClassOf(err error) ErrorClass {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Class
	}
	return ""
}

// classifyStatus maps an HTTP status code to an error class.
// Returns "" only for 2xx; anything else left over after redirects and
// revalidation is an upstream fault.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return ""
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}
