package errfilter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/mocks"
	"github.com/jsamuelsen/go-error-filters/internal/platform/telemetry"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

// recorder captures what the filter writes.
type recorder struct {
	calls int
	code  int
	body  *dto.ErrorResponse
}

func (r *recorder) JSON(code int, obj any) {
	r.calls++
	r.code = code
	r.body, _ = obj.(*dto.ErrorResponse)
}

// keyMessages renders every message as its own key, once per requested
// language when several are requested.
type keyMessages struct{}

func (keyMessages) Get(_ context.Context, msg domain.Message, opts ports.MessageOptions) (domain.Localized, error) {
	if len(opts.Languages) > 1 {
		out := make(domain.LocalizedMessage, len(opts.Languages))
		for _, lang := range opts.Languages {
			out[lang] = lang + ":" + msg.Key
		}

		return domain.PerLanguage(out), nil
	}

	return domain.Text(msg.Key), nil
}

func (keyMessages) GetRequestErrorsMessage(
	_ context.Context,
	errs []domain.ErrorDescriptor,
	_ []string,
) ([]domain.LocalizedError, error) {
	out := make([]domain.LocalizedError, 0, len(errs))
	for _, e := range errs {
		out = append(out, domain.LocalizedError{Property: e.Property, Message: domain.Text(e.Property)})
	}

	return out, nil
}

func TestRequest_Languages(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected []string
	}{
		{
			name:     "no header",
			req:      Request{Language: "en"},
			expected: nil,
		},
		{
			name:     "header with single language",
			req:      Request{HasAcceptLanguage: true, Language: "fr"},
			expected: []string{"fr"},
		},
		{
			name:     "header with several languages",
			req:      Request{HasAcceptLanguage: true, Language: "en,fr"},
			expected: []string{"en", "fr"},
		},
		{
			name:     "header but nothing resolved",
			req:      Request{HasAcceptLanguage: true},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.Languages())
		})
	}
}

func TestFilter_Catch_Structured(t *testing.T) {
	descriptors := []domain.ErrorDescriptor{
		{Property: "key", Constraints: []string{"required"}},
	}

	messages := mocks.NewMockMessageService(t)
	messages.EXPECT().
		GetRequestErrorsMessage(mock.Anything, descriptors, []string{"fr"}).
		Return([]domain.LocalizedError{{Property: "key", Message: domain.Text("key est obligatoire.")}}, nil)
	messages.EXPECT().
		Get(mock.Anything, domain.Key(domain.MessageKeyValidation), ports.MessageOptions{Languages: []string{"fr"}}).
		Return(domain.Text("La requête est invalide."), nil)

	filter := New(Config{Messages: messages})
	w := &recorder{}

	exc := domain.NewValidationException(descriptors).WithData(map[string]any{"attempt": 1})
	filter.Catch(context.Background(), Request{HasAcceptLanguage: true, Language: "fr"}, w, exc)

	require.Equal(t, 1, w.calls)
	assert.Equal(t, http.StatusUnprocessableEntity, w.code)
	require.NotNil(t, w.body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.body.StatusCode)
	assert.Equal(t, "La requête est invalide.", w.body.Message.String())
	assert.Equal(t, []domain.LocalizedError{{Property: "key", Message: domain.Text("key est obligatoire.")}}, w.body.Errors)
	assert.Equal(t, map[string]any{"attempt": 1}, w.body.Data)
}

func TestFilter_Catch_StructuredWithoutErrors(t *testing.T) {
	messages := mocks.NewMockMessageService(t)
	messages.EXPECT().
		Get(mock.Anything, domain.Key(domain.MessageKeyNotFound), ports.MessageOptions{}).
		Return(domain.Text("Not found."), nil)

	filter := New(Config{Messages: messages})
	w := &recorder{}

	filter.Catch(context.Background(), Request{}, w,
		domain.NewHTTPException(http.StatusNotFound, domain.Key(domain.MessageKeyNotFound)))

	assert.Equal(t, http.StatusNotFound, w.code)
	assert.Equal(t, dto.NewErrorResponse(http.StatusNotFound, domain.Text("Not found.")), w.body)
	messages.AssertNotCalled(t, "GetRequestErrorsMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestFilter_Catch_EmptyErrorsStayPresent(t *testing.T) {
	filter := New(Config{Messages: keyMessages{}})
	w := &recorder{}

	filter.Catch(context.Background(), Request{}, w,
		domain.NewValidationException([]domain.ErrorDescriptor{}))

	require.NotNil(t, w.body.Errors)
	assert.Empty(t, w.body.Errors)

	body, err := json.Marshal(w.body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":422,"message":"request.error.validation","errors":[]}`, string(body))
}

func TestFilter_Catch_NilException(t *testing.T) {
	filter := New(Config{Messages: keyMessages{}})
	w := &recorder{}

	require.NotPanics(t, func() {
		filter.Catch(context.Background(), Request{}, w, nil)
	})

	require.Equal(t, 1, w.calls)
	assert.Equal(t, http.StatusInternalServerError, w.code)
	assert.Equal(t, dto.NewErrorResponse(http.StatusInternalServerError,
		domain.Text(domain.MessageKeyErrorStructure)), w.body)
}

func TestFilter_Catch_MarksSpan(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")

	filter := New(Config{Messages: keyMessages{}})
	filter.Catch(ctx, Request{}, &recorder{}, domain.NewHTTPException(http.StatusConflict, domain.Key(domain.MessageKeyConflict)))
	span.End()

	ended := spans.Ended()
	require.Len(t, ended, 1)

	events := ended[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.EventException, events[0].Name)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.Int("http.response.status_code", http.StatusConflict),
		attribute.String("errfilter.payload", payloadStructured),
		attribute.String("errfilter.outcome", outcomeTranslated),
	}, events[0].Attributes)
}

func TestFilter_Catch_StatusCodeFromPayload(t *testing.T) {
	filter := New(Config{Messages: keyMessages{}})
	w := &recorder{}

	exc := &domain.HTTPException{
		Status: http.StatusBadRequest,
		Payload: domain.StructuredPayload{
			StatusCode: 4001,
			Message:    domain.Key("user.error.emailTaken"),
		},
	}
	filter.Catch(context.Background(), Request{}, w, exc)

	assert.Equal(t, http.StatusBadRequest, w.code)
	assert.Equal(t, 4001, w.body.StatusCode)
	assert.Equal(t, "user.error.emailTaken", w.body.Message.String())
}

func TestFilter_Catch_Plain(t *testing.T) {
	tests := []struct {
		name string
		exc  *domain.HTTPException
		req  Request
		opts ports.MessageOptions
	}{
		{
			name: "string payload keeps the http status",
			exc:  domain.NewPlainHTTPException(http.StatusBadRequest, "bad input"),
			opts: ports.MessageOptions{},
		},
		{
			name: "missing payload",
			exc:  &domain.HTTPException{Status: http.StatusConflict},
			req:  Request{HasAcceptLanguage: true, Language: "en"},
			opts: ports.MessageOptions{Languages: []string{"en"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := mocks.NewMockMessageService(t)
			messages.EXPECT().
				Get(mock.Anything, domain.Key(domain.MessageKeyErrorStructure), tt.opts).
				Return(domain.Text("The error response has an invalid structure."), nil)

			filter := New(Config{Messages: messages})
			w := &recorder{}

			filter.Catch(context.Background(), tt.req, w, tt.exc)

			assert.Equal(t, tt.exc.Status, w.code)
			assert.Equal(t, http.StatusInternalServerError, w.body.StatusCode)
			assert.Equal(t, "The error response has an invalid structure.", w.body.Message.String())
			assert.Nil(t, w.body.Errors)
			assert.Nil(t, w.body.Data)
		})
	}
}

func TestFilter_Catch_MultipleLanguages(t *testing.T) {
	filter := New(Config{Messages: keyMessages{}})
	w := &recorder{}

	filter.Catch(context.Background(), Request{HasAcceptLanguage: true, Language: "en,fr"}, w,
		domain.NewHTTPException(http.StatusForbidden, domain.Key(domain.MessageKeyForbidden)))

	require.True(t, w.body.Message.IsMulti())
	assert.Equal(t, domain.LocalizedMessage{
		"en": "en:" + domain.MessageKeyForbidden,
		"fr": "fr:" + domain.MessageKeyForbidden,
	}, w.body.Message.ByLanguage)
}

func TestFilter_Catch_MessageServiceFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mocks.MockMessageService)
		exc   *domain.HTTPException
	}{
		{
			name: "message lookup fails",
			setup: func(m *mocks.MockMessageService) {
				m.EXPECT().Get(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.Localized{}, errors.New("catalog unavailable"))
			},
			exc: domain.NewHTTPException(http.StatusNotFound, domain.Key(domain.MessageKeyNotFound)),
		},
		{
			name: "request errors lookup fails",
			setup: func(m *mocks.MockMessageService) {
				m.EXPECT().GetRequestErrorsMessage(mock.Anything, mock.Anything, mock.Anything).
					Return(nil, context.Canceled)
			},
			exc: domain.NewValidationException([]domain.ErrorDescriptor{{Property: "key"}}),
		},
		{
			name: "plain payload lookup fails",
			setup: func(m *mocks.MockMessageService) {
				m.EXPECT().Get(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.Localized{}, errors.New("boom"))
			},
			exc: domain.NewPlainHTTPException(http.StatusBadRequest, "oops"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := mocks.NewMockMessageService(t)
			tt.setup(messages)

			filter := New(Config{Messages: messages})
			w := &recorder{}

			filter.Catch(context.Background(), Request{}, w, tt.exc)

			require.Equal(t, 1, w.calls)
			assert.Equal(t, http.StatusInternalServerError, w.code)
			assert.Equal(t, dto.NewErrorResponse(http.StatusInternalServerError, domain.Text(dto.FallbackMessage)), w.body)
		})
	}
}

func TestFilter_Catch_InvalidStatus(t *testing.T) {
	filter := New(Config{Messages: keyMessages{}})

	for _, status := range []int{0, -1, 99, 600, 4001} {
		w := &recorder{}
		filter.Catch(context.Background(), Request{}, w, domain.NewPlainHTTPException(status, "x"))

		assert.Equal(t, http.StatusInternalServerError, w.code, "status %d", status)
	}
}

func TestFilter_Catch_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	filter := New(Config{Messages: keyMessages{}})

	properties.Property("structured payload keeps http status and body statusCode", prop.ForAll(
		func(status, statusCode int, key string) bool {
			w := &recorder{}
			exc := &domain.HTTPException{
				Status:  status,
				Payload: domain.StructuredPayload{StatusCode: statusCode, Message: domain.Key(key)},
			}
			filter.Catch(context.Background(), Request{}, w, exc)

			return w.calls == 1 &&
				w.code == status &&
				w.body.StatusCode == statusCode &&
				w.body.Message.String() == key
		},
		gen.IntRange(100, 599),
		gen.Int(),
		gen.AlphaString(),
	))

	properties.Property("plain payload always reports statusCode 500", prop.ForAll(
		func(status int, value string) bool {
			w := &recorder{}
			filter.Catch(context.Background(), Request{}, w, domain.NewPlainHTTPException(status, value))

			return w.calls == 1 &&
				w.code == status &&
				w.body.StatusCode == http.StatusInternalServerError &&
				w.body.Message.String() == domain.MessageKeyErrorStructure &&
				w.body.Errors == nil &&
				w.body.Data == nil
		},
		gen.IntRange(100, 599),
		gen.AnyString(),
	))

	properties.Property("without the header no languages are requested", prop.ForAll(
		func(lang string) bool {
			return Request{Language: lang}.Languages() == nil
		},
		gen.AnyString(),
	))

	properties.Property("with the header languages split the resolved string", prop.ForAll(
		func(langs []string) bool {
			joined := strings.Join(langs, ",")
			got := Request{HasAcceptLanguage: true, Language: joined}.Languages()

			return strings.Join(got, ",") == joined
		},
		gen.SliceOfN(3, gen.Identifier()),
	))

	properties.Property("data passes through unchanged", prop.ForAll(
		func(data string) bool {
			w := &recorder{}
			exc := domain.NewHTTPException(http.StatusConflict, domain.Key(domain.MessageKeyConflict)).WithData(data)
			filter.Catch(context.Background(), Request{}, w, exc)

			return w.body.Data == data
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
