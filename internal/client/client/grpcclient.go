package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/netx"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// DefaultConnectTimeout bounds Connect when no timeout is configured.
const DefaultConnectTimeout = 5 * time.Second

type GRPCClient struct {
	connectTimeout time.Duration
	dialOpts       []grpc.DialOption

	mu     sync.RWMutex
	target string
	conn   *grpc.ClientConn
	client pb.FileServiceClient
}

// NewGRPCClient returns a disconnected client. Extra dial options are appended
// to the defaults on every Connect.
func NewGRPCClient(connectTimeout time.Duration, opts ...grpc.DialOption) *GRPCClient {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	return &GRPCClient{connectTimeout: connectTimeout, dialOpts: opts}
}

// Connect dials address and waits until the channel is ready. A previous
// connection is closed only after the new one is established.
func (s *GRPCClient) Connect(ctx context.Context, address string) error {
	target := netx.NormalizeTarget(address)
	if target == "" {
		return fmt.Errorf("%w: empty address", common.ErrConnection)
	}

	opts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, s.dialOpts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	if err := waitReady(ctx, conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %s: %v", common.ErrConnection, target, err)
	}

	s.mu.Lock()
	old := s.conn
	s.conn = conn
	s.client = pb.NewFileServiceClient(conn)
	s.target = target
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func waitReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if !conn.WaitForStateChange(ctx, state) {
			return fmt.Errorf("not ready (last state %s): %w", state, ctx.Err())
		}
	}
}

func (s *GRPCClient) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

// Target returns the address of the current connection, or "".
func (s *GRPCClient) Target() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

func (s *GRPCClient) rpc() (pb.FileServiceClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

func (s *GRPCClient) ListDirectory(ctx context.Context, path string) ([]dirlist.Entry, error) {
	c, err := s.rpc()
	if err != nil {
		return nil, err
	}

	resp, err := c.ListDir(ctx, &pb.ListDirRequest{Path: path})
	if err != nil {
		return nil, s.mapError(err)
	}

	entries := make([]dirlist.Entry, 0, len(resp.GetEntries()))
	for _, e := range resp.GetEntries() {
		entries = append(entries, dirlist.Entry{Name: e.GetName(), IsDir: e.GetIsDir()})
	}
	return entries, nil
}

// UploadFile streams chunks until the one marked Eof and returns the server's
// verdict. If chunks is closed before an Eof chunk the stream is cancelled,
// so the server drops the partial upload, and ErrNoEOF is returned.
func (s *GRPCClient) UploadFile(ctx context.Context, chunks <-chan *pb.FileChunk) (*UploadResult, error) {
	c, err := s.rpc()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.UploadFile(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}

	sawEOF := false
	for chunk := range chunks {
		if err := stream.Send(chunk); err != nil {
			if errors.Is(err, io.EOF) {
				// the server already finished; its status explains why
				_, err = stream.CloseAndRecv()
			}
			return nil, s.mapError(err)
		}
		if chunk.GetEof() {
			sawEOF = true
			break
		}
	}

	if !sawEOF {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoEOF
	}

	st, err := stream.CloseAndRecv()
	if err != nil {
		return nil, s.mapError(err)
	}

	return &UploadResult{Success: st.GetSuccess(), Message: st.GetMessage()}, nil
}

func (s *GRPCClient) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.client = nil
	s.target = ""
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	var kind error
	switch st.Code() {
	case codes.InvalidArgument:
		kind = common.ErrInvalidArgument
	case codes.NotFound:
		kind = common.ErrNotFound
	case codes.PermissionDenied:
		kind = common.ErrPermissionDenied
	case codes.Unavailable:
		kind = common.ErrUnavailable
	case codes.Internal:
		kind = common.ErrInternal
	case codes.Canceled:
		kind = context.Canceled
	case codes.DeadlineExceeded:
		kind = context.DeadlineExceeded
	default:
		return fmt.Errorf("rpc error: %w", err)
	}

	return &RemoteError{Kind: kind, Code: st.Code(), Message: st.Message()}
}
