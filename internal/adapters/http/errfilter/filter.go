// Package errfilter translates HTTP exceptions into localized JSON responses.
//
// The translation itself (Filter.Catch) knows nothing about gin: it reads a
// Request, calls the message service and writes through a ResponseWriter.
// Middleware and Abort hook it into the gin handler chain.
package errfilter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

// Request is the part of the inbound request the filter reads.
type Request struct {
	// HasAcceptLanguage reports whether the Accept-Language header was sent.
	HasAcceptLanguage bool

	// Language is the resolved language string, comma-separated ("en,fr").
	Language string
}

// Languages returns the language preferences for the message service:
// the resolved language string split on commas when the client sent an
// Accept-Language header, nil otherwise.
func (r Request) Languages() []string {
	if !r.HasAcceptLanguage || r.Language == "" {
		return nil
	}

	return strings.Split(r.Language, ",")
}

// ResponseWriter receives the translated response. *gin.Context satisfies it.
type ResponseWriter interface {
	JSON(code int, obj any)
}

// Config configures a Filter.
type Config struct {
	// Messages resolves message keys. Required.
	Messages ports.MessageService

	// Logger is an optional logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Filter is the HTTP exception translator. It holds no per-request state and
// is safe for concurrent use.
type Filter struct {
	messages ports.MessageService
	logger   *slog.Logger
}

// New creates a Filter.
func New(cfg Config) *Filter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Filter{
		messages: cfg.Messages,
		logger:   logger,
	}
}

// Catch translates exc and writes exactly one JSON response to w.
//
// A structured payload keeps its statusCode, data and localized errors. Any
// other payload is answered with the response.error.structure message and a
// statusCode of 500 in the body, while the HTTP status stays exc.Status.
// If the message service fails, a 500 response with a fixed English message
// is written instead. A nil exc is answered like a plain 500.
func (f *Filter) Catch(ctx context.Context, req Request, w ResponseWriter, exc *domain.HTTPException) {
	if exc == nil {
		exc = domain.NewPlainHTTPException(http.StatusInternalServerError, nil)
	}

	status := httpStatus(exc.Status)
	languages := req.Languages()

	var (
		resp        *dto.ErrorResponse
		payloadKind string
		err         error
	)

	switch p := exc.Payload.(type) {
	case domain.StructuredPayload:
		payloadKind = payloadStructured
		resp, err = f.structured(ctx, p, languages)

	default:
		// PlainPayload and a missing payload share the fallback path
		payloadKind = payloadPlain
		resp, err = f.plain(ctx, languages)
	}

	if err != nil {
		f.logFailure(ctx, exc, err)
		recordHTTPException(ctx, http.StatusInternalServerError, payloadKind, outcomeFallback)
		w.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			http.StatusInternalServerError,
			domain.Text(dto.FallbackMessage),
		))

		return
	}

	if status >= http.StatusInternalServerError {
		f.logInternal(ctx, exc)
	}

	recordHTTPException(ctx, status, payloadKind, outcomeTranslated)
	w.JSON(status, resp)
}

func (f *Filter) structured(
	ctx context.Context,
	p domain.StructuredPayload,
	languages []string,
) (*dto.ErrorResponse, error) {
	var errs []domain.LocalizedError

	if p.Errors != nil {
		resolved, err := f.messages.GetRequestErrorsMessage(ctx, p.Errors, languages)
		if err != nil {
			return nil, err
		}

		// present but empty stays [] in the body
		errs = append([]domain.LocalizedError{}, resolved...)
	}

	msg, err := f.messages.Get(ctx, p.Message, ports.MessageOptions{Languages: languages})
	if err != nil {
		return nil, err
	}

	return &dto.ErrorResponse{
		StatusCode: p.StatusCode,
		Message:    msg,
		Errors:     errs,
		Data:       p.Data,
	}, nil
}

func (f *Filter) plain(ctx context.Context, languages []string) (*dto.ErrorResponse, error) {
	msg, err := f.messages.Get(ctx,
		domain.Key(domain.MessageKeyErrorStructure),
		ports.MessageOptions{Languages: languages},
	)
	if err != nil {
		return nil, err
	}

	return dto.NewErrorResponse(http.StatusInternalServerError, msg), nil
}

func (f *Filter) logInternal(ctx context.Context, exc *domain.HTTPException) {
	logging.FromContextOr(ctx, f.logger).Error("internal error",
		slog.Int("status", exc.Status),
		slog.String("error", exc.Error()),
		slog.String("trace_id", traceID(ctx)),
	)
}

func (f *Filter) logFailure(ctx context.Context, exc *domain.HTTPException, err error) {
	logging.FromContextOr(ctx, f.logger).Error("message service failed while translating exception",
		slog.Int("status", exc.Status),
		slog.String("exception", exc.Error()),
		slog.Any("error", err),
		slog.String("trace_id", traceID(ctx)),
	)
}

// httpStatus keeps writes valid when an exception carries an unusable status.
func httpStatus(status int) int {
	if status < http.StatusContinue || status > 599 {
		return http.StatusInternalServerError
	}

	return status
}

func traceID(ctx context.Context) string {
	if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

func statusLabel(status int) string {
	return strconv.Itoa(status)
}
