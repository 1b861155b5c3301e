package domain

import (
	"fmt"
	"net/http"
)

// Payload is the body carried by an HTTPException.
// It is a closed set: StructuredPayload or PlainPayload.
type Payload interface {
	payload()
}

// StructuredPayload is the recognized exception body shape. Message is resolved
// through the message service before it reaches the client; Errors, when set,
// are resolved one by one.
type StructuredPayload struct {
	StatusCode int
	Message    Message
	Errors     []ErrorDescriptor
	Data       any
}

// PlainPayload is any body that is not a StructuredPayload, typically a bare string.
type PlainPayload struct {
	Value any
}

func (StructuredPayload) payload() {}
func (PlainPayload) payload()      {}

// HTTPException is an error that carries an HTTP status and a response payload.
// Handlers return it to short-circuit a request with a localized error body.
type HTTPException struct {
	Status  int
	Payload Payload
}

// Error implements the error interface.
func (e *HTTPException) Error() string {
	switch p := e.Payload.(type) {
	case StructuredPayload:
		return fmt.Sprintf("http exception %d: %s", e.Status, p.Message.Key)
	case PlainPayload:
		return fmt.Sprintf("http exception %d: %v", e.Status, p.Value)
	default:
		return fmt.Sprintf("http exception %d", e.Status)
	}
}

// NewHTTPException creates an exception with a structured payload whose
// statusCode mirrors the HTTP status.
func NewHTTPException(status int, msg Message) *HTTPException {
	return &HTTPException{
		Status: status,
		Payload: StructuredPayload{
			StatusCode: status,
			Message:    msg,
		},
	}
}

// NewPlainHTTPException creates an exception whose payload is not structured.
func NewPlainHTTPException(status int, value any) *HTTPException {
	return &HTTPException{
		Status:  status,
		Payload: PlainPayload{Value: value},
	}
}

// NewValidationException creates a 422 exception carrying request validation failures.
func NewValidationException(errs []ErrorDescriptor) *HTTPException {
	return &HTTPException{
		Status: http.StatusUnprocessableEntity,
		Payload: StructuredPayload{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    Key(MessageKeyValidation),
			Errors:     errs,
		},
	}
}

// WithData returns a copy of the exception with data attached to a structured payload.
// Plain payloads are returned unchanged.
func (e *HTTPException) WithData(data any) *HTTPException {
	p, ok := e.Payload.(StructuredPayload)
	if !ok {
		return e
	}

	p.Data = data

	return &HTTPException{Status: e.Status, Payload: p}
}

// RPCException is an error raised while handling an inter-service call.
// Its payload travels to the caller serialized as JSON.
type RPCException struct {
	Payload any
}

// Error implements the error interface.
func (e *RPCException) Error() string {
	return fmt.Sprintf("rpc exception: %v", e.Payload)
}

// NewRPCException creates an RPC exception with the given payload.
func NewRPCException(payload any) *RPCException {
	return &RPCException{Payload: payload}
}
