package grpc

import (
	"VillageWars/internal/shared/transport"
	"VillageWars/modules/kit/logx"
	"VillageWars/modules/kit/tracex"
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

// UnaryClientTraceInterceptor 把调用方的 trace/span 写进 outgoing metadata。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		if traceID, ok := tracex.TraceIDFrom(ctx); ok {
			ctx = metadata.AppendToOutgoingContext(ctx, traceIDHeader, traceID)
		}
		if spanID, ok := tracex.SpanIDFrom(ctx); ok {
			ctx = metadata.AppendToOutgoingContext(ctx, spanIDHeader, spanID)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// UnaryServerAccessInterceptor 沿用调用方的 trace_id，并为每次调用写一条 access 日志。
func UnaryServerAccessInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	if log == nil {
		log = logx.Nop()
	}
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(fromIncoming(ctx), info.FullMethod)
		resp, err := handler(ctx, req)

		st := status.Convert(err)
		transport.SetBizCode(ctx, bizCodeOf(st.Code()))
		if err != nil {
			transport.SetErrorReason(ctx, st.Message())
		}
		transport.WriteAccessLog(ctx, log)
		return resp, err
	}
}

func fromIncoming(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if values := md.Get(traceIDHeader); len(values) > 0 && values[0] != "" {
		ctx = tracex.WithTraceID(ctx, values[0])
	}
	if values := md.Get(spanIDHeader); len(values) > 0 && values[0] != "" {
		ctx = tracex.WithSpanID(ctx, values[0])
	}
	return ctx
}

func bizCodeOf(c codes.Code) transport.BizCode {
	switch c {
	case codes.OK:
		return transport.OK
	case codes.InvalidArgument, codes.FailedPrecondition:
		return transport.Rejected
	case codes.NotFound:
		return transport.NotFound
	case codes.PermissionDenied:
		return transport.Forbidden
	case codes.Unauthenticated:
		return transport.Unauthorized
	case codes.DeadlineExceeded, codes.Canceled:
		return transport.Timeout
	case codes.Unavailable:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}
