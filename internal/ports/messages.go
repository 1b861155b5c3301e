// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the error translators
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
)

// MessageOptions controls how a message is rendered.
type MessageOptions struct {
	// Languages are the requested language tags, most preferred first.
	// Nil means the service applies its own default language.
	Languages []string
}

// MessageService resolves message keys to language-appropriate text.
// Implementations must be safe for concurrent use.
type MessageService interface {
	// Get renders a message. A single requested language (or none) yields a
	// single text; several yield one text per language.
	Get(ctx context.Context, msg domain.Message, opts MessageOptions) (domain.Localized, error)

	// GetRequestErrorsMessage renders each constraint of each request error.
	GetRequestErrorsMessage(
		ctx context.Context,
		errs []domain.ErrorDescriptor,
		languages []string,
	) ([]domain.LocalizedError, error)
}
