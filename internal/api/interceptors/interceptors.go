// Package interceptors holds the unary server interceptors installed on the
// gRPC server.
package interceptors

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/Domenick1991/flightbooking/internal/metrics"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Recovery turns a handler panic into codes.Internal.
func Recovery(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("grpc handler panic", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func Logging(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []interface{}{
			"method", info.FullMethod,
			"code", code.String(),
			"latency", time.Since(start),
		}
		switch code {
		case codes.OK:
			log.Debugw("grpc request", fields...)
		case codes.Internal, codes.Unknown, codes.DataLoss:
			log.Errorw("grpc request", append(fields, "error", err)...)
		default:
			log.Infow("grpc request", append(fields, "error", err)...)
		}
		return resp, err
	}
}

func Metrics(m *metrics.Registry) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		m.GRPCRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// Chain returns the interceptors in the order the server installs them:
// recovery innermost so that logging and metrics see the Internal code.
func Chain(log *zap.SugaredLogger, m *metrics.Registry) grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		Metrics(m),
		Logging(log),
		Recovery(log),
	)
}
