// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "github.com/jsamuelsen/go-error-filters/internal/domain"

// ErrorResponse is the normalized body written for every HTTP exception.
// Errors and Data are omitted when absent. A non-nil empty Errors is written
// as [].
type ErrorResponse struct {
	// StatusCode is taken from the exception payload, not from the HTTP status.
	StatusCode int `json:"statusCode"`

	// Message is a single text, or an object keyed by language when several
	// languages were requested.
	Message domain.Localized `json:"message"`

	// Errors holds one localized entry per failed request constraint.
	Errors []domain.LocalizedError `json:"errors,omitzero"`

	// Data is passed through unchanged from the exception payload.
	Data any `json:"data,omitempty"`
}

// FallbackMessage is written when the message service itself fails.
const FallbackMessage = "an internal error occurred"

// NewErrorResponse creates a response with only a status code and message.
func NewErrorResponse(statusCode int, message domain.Localized) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}
