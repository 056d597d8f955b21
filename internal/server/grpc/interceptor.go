package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// withPeer tags everything logged while serving a call with the client address.
func withPeer(ctx context.Context) context.Context {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return logging.ContextWith(ctx, "peer", p.Addr.String())
	}
	return ctx
}

type taggedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (t *taggedStream) Context() context.Context {
	return t.ctx
}

func (s *GRPCServer) unaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	ctx = withPeer(ctx)
	resp, err := handler(ctx, req)
	s.observe(ctx, info.FullMethod, start, err)
	return resp, err
}

func (s *GRPCServer) streamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	ss = &taggedStream{ServerStream: ss, ctx: withPeer(ss.Context())}
	err := handler(srv, ss)
	s.observe(ss.Context(), info.FullMethod, start, err)
	return err
}

func (s *GRPCServer) observe(ctx context.Context, method string, start time.Time, err error) {
	elapsed := time.Since(start)
	code := status.Code(err)

	metrics.RecordGRPCRequest(method, code.String(), elapsed)

	if err != nil {
		s.logger.Warn(ctx, "grpc call", "method", method, "code", code.String(), "duration", elapsed, "error", err)
		return
	}
	s.logger.Info(ctx, "grpc call", "method", method, "code", code.String(), "duration", elapsed)
}
