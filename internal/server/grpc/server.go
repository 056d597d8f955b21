package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
	"google.golang.org/grpc"
)

// Lister lists one directory level below the storage root.
type Lister interface {
	List(ctx context.Context, path string) ([]dirlist.Entry, string, error)
}

// Uploader stores one streamed file.
type Uploader interface {
	Receive(ctx context.Context, stream upload.ChunkReceiver) (*upload.Result, error)
}

type GRPCServer struct {
	pb.UnimplementedFileServiceServer
	address         string
	lister          Lister
	uploads         Uploader
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewGRPCServer(a string, l logging.Logger, ls Lister, us Uploader, shutdownTimeout time.Duration) (*GRPCServer, error) {
	return &GRPCServer{
		address:         a,
		logger:          l.With("module", "grpc_server"),
		lister:          ls,
		uploads:         us,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// NewServer builds a grpc.Server with the interceptors installed and the
// file service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.unaryInterceptor),
		grpc.ChainStreamInterceptor(s.streamInterceptor),
	)
	pb.RegisterFileServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done. In-flight calls get
// shutdownTimeout to finish before the server is stopped hard.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(s.shutdownTimeout):
			s.logger.Warn(ctx, "graceful stop timed out, closing open streams")
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
