package errfilter

import (
	"context"
	"errors"
	"net/http"

	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-error-filters/internal/domain"
)

// ToHTTPException maps any handler error to an HTTP exception.
// Unknown errors become a 500 without leaking their text to the client.
func ToHTTPException(err error) *domain.HTTPException {
	if err == nil {
		return nil
	}

	var exc *domain.HTTPException
	if errors.As(err, &exc) {
		return exc
	}

	switch {
	case errors.Is(err, dto.ErrBinding):
		return domain.NewPlainHTTPException(http.StatusBadRequest, err.Error())

	case dto.IsValidationError(err):
		return domain.NewValidationException(dto.ErrorDescriptors(err))

	case domain.IsValidation(err):
		exc := domain.NewHTTPException(http.StatusBadRequest, domain.MessageOf(err, domain.Key(domain.MessageKeyValidation)))

		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			p := exc.Payload.(domain.StructuredPayload)
			p.Errors = []domain.ErrorDescriptor{ve.Descriptor()}
			exc.Payload = p
		}

		return exc

	case domain.IsNotFound(err):
		return domain.NewHTTPException(http.StatusNotFound, domain.MessageOf(err, domain.Key(domain.MessageKeyNotFound)))

	case domain.IsConflict(err):
		return domain.NewHTTPException(http.StatusConflict, domain.MessageOf(err, domain.Key(domain.MessageKeyConflict)))

	case domain.IsForbidden(err):
		return domain.NewHTTPException(http.StatusForbidden, domain.MessageOf(err, domain.Key(domain.MessageKeyForbidden)))

	case domain.IsUnavailable(err):
		return domain.NewHTTPException(
			http.StatusServiceUnavailable,
			domain.MessageOf(err, domain.Key(domain.MessageKeyUnavailable)),
		)

	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewHTTPException(http.StatusGatewayTimeout, domain.Key(domain.MessageKeyTimeout))

	default:
		return domain.NewHTTPException(http.StatusInternalServerError, domain.Key(domain.MessageKeyInternal))
	}
}
