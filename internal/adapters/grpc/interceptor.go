package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
	"github.com/jsamuelsen/go-error-filters/internal/platform/telemetry"
)

// MetadataRequestID is the incoming metadata key of the caller's request ID.
const MetadataRequestID = "x-request-id"

// UnaryServerErrorInterceptor translates RPC exceptions returned by unary
// handlers through filter. Other errors pass through unchanged.
func UnaryServerErrorInterceptor(filter *ErrorFilter, logger *slog.Logger) gogrpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *gogrpc.UnaryServerInfo,
		handler gogrpc.UnaryHandler,
	) (any, error) {
		ctx = enrichLogger(ctx, logger)

		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		return nil, catch(ctx, filter, info.FullMethod, err)
	}
}

// StreamServerErrorInterceptor is UnaryServerErrorInterceptor for streams.
func StreamServerErrorInterceptor(filter *ErrorFilter, logger *slog.Logger) gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		ctx := enrichLogger(ss.Context(), logger)

		err := handler(srv, ss)
		if err == nil {
			return nil
		}

		return catch(ctx, filter, info.FullMethod, err)
	}
}

func catch(ctx context.Context, filter *ErrorFilter, method string, err error) error {
	var exc *domain.RPCException
	if !errors.As(err, &exc) {
		return err
	}

	failed := filter.Catch(exc)

	telemetry.RecordException(ctx,
		attribute.String("rpc.method", method),
		attribute.String("errfilter.reason", failed.Error()),
	)

	logging.FromContext(ctx).WarnContext(ctx, "rpc exception",
		slog.String("method", method),
		slog.String("reason", failed.Error()),
	)

	return failed
}

// enrichLogger stores a logger carrying the caller's request ID and the
// trace ID in ctx.
func enrichLogger(ctx context.Context, logger *slog.Logger) context.Context {
	ctx = logging.WithContext(ctx, logging.FromContextOr(ctx, logger))

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(MetadataRequestID); len(ids) > 0 && ids[0] != "" {
			ctx = logging.WithRequestID(ctx, ids[0])
		}
	}

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		ctx = logging.WithTraceID(ctx, sc.TraceID().String())
	}

	return ctx
}

// UnaryClientErrorInterceptor turns failed calls carrying an RPC_EXCEPTION
// detail back into *domain.RPCException, with the payload decoded from the
// JSON reason. Other errors pass through unchanged.
func UnaryClientErrorInterceptor() gogrpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker,
		opts ...gogrpc.CallOption,
	) error {
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err == nil {
			return nil
		}

		if exc, ok := FromError(err); ok {
			return exc
		}

		return err
	}
}

// FromError decodes a status produced by ErrorFilter. It reports false for
// any other error.
func FromError(err error) (*domain.RPCException, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}

	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetReason() != ReasonRPCException {
			continue
		}

		var payload any
		if err := json.Unmarshal([]byte(st.Message()), &payload); err != nil {
			return domain.NewRPCException(st.Message()), true
		}

		return domain.NewRPCException(payload), true
	}

	return nil, false
}
