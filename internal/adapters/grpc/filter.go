// Package grpc adapts RPC exceptions to failed gRPC results and hosts the
// gRPC server.
package grpc

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
)

const (
	// ReasonRPCException marks a status produced by ErrorFilter.
	ReasonRPCException = "RPC_EXCEPTION"

	// ErrorDomain is the ErrorInfo domain of statuses produced by ErrorFilter.
	ErrorDomain = "go-error-filters"
)

// RPCError is the failed result produced for an RPC exception. Reason is the
// JSON serialization of the exception payload.
type RPCError struct {
	Reason string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Reason
}

// GRPCStatus lets the gRPC runtime send the error as an Unknown status whose
// message is the reason, tagged with an RPC_EXCEPTION ErrorInfo.
func (e *RPCError) GRPCStatus() *status.Status {
	st := status.New(codes.Unknown, e.Reason)

	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: ReasonRPCException,
		Domain: ErrorDomain,
	})
	if err != nil {
		return st
	}

	return detailed
}

// ErrorFilter turns RPC exceptions into failed results. It has no state and
// no side effects beyond a metric.
type ErrorFilter struct{}

// NewErrorFilter creates an RPC error filter.
func NewErrorFilter() *ErrorFilter {
	return &ErrorFilter{}
}

// Catch returns the failed result for exc. It never succeeds: the returned
// error is always a non-nil *RPCError.
func (f *ErrorFilter) Catch(exc *domain.RPCException) error {
	var payload any
	if exc != nil {
		payload = exc.Payload
	}

	reason, encoding := serialize(payload)
	recordRPCException(encoding)

	return &RPCError{Reason: reason}
}
