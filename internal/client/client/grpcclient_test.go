package client

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/transfer"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	servergrpc "github.com/dmitrijs2005/gophdrive/internal/server/grpc"
	"github.com/dmitrijs2005/gophdrive/internal/server/locks"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	lastListReq *pb.ListDirRequest

	listResp *pb.ListDirResponse
	listErr  error
}

func (f *fakePB) ListDir(ctx context.Context, in *pb.ListDirRequest, opts ...grpc.CallOption) (*pb.ListDirResponse, error) {
	f.lastListReq = in
	return f.listResp, f.listErr
}

func (f *fakePB) UploadFile(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[pb.FileChunk, pb.UploadStatus], error) {
	return nil, status.Error(codes.Unimplemented, "fake")
}

/*************
 * unit tests
 *************/

func TestNotConnected(t *testing.T) {
	c := NewGRPCClient(0)
	assert.False(t, c.Connected())
	assert.Empty(t, c.Target())

	_, err := c.ListDirectory(context.Background(), "/")
	require.ErrorIs(t, err, ErrNotConnected)
	require.ErrorIs(t, err, common.ErrUnavailable)

	_, err = c.UploadFile(context.Background(), make(chan *pb.FileChunk))
	require.ErrorIs(t, err, common.ErrUnavailable)

	require.NoError(t, c.Close(), "closing a disconnected client is a no-op")
}

func TestListDirectory_MapsEntries(t *testing.T) {
	f := &fakePB{listResp: &pb.ListDirResponse{Entries: []*pb.DirEntry{
		{Name: "docs", IsDir: true},
		{Name: "a.txt"},
	}}}
	c := &GRPCClient{client: f}

	got, err := c.ListDirectory(context.Background(), "/x")
	require.NoError(t, err)
	require.Equal(t, "/x", f.lastListReq.GetPath())
	require.Equal(t, []dirlist.Entry{{Name: "docs", IsDir: true}, {Name: "a.txt"}}, got)
}

func TestListDirectory_MapsErrors(t *testing.T) {
	f := &fakePB{listErr: status.Error(codes.NotFound, "not found: \"x\"")}
	c := &GRPCClient{client: f}

	_, err := c.ListDirectory(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.Equal(t, "not found: \"x\"", err.Error())

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	require.Equal(t, codes.NotFound, re.Code)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.InvalidArgument, common.ErrInvalidArgument},
		{codes.NotFound, common.ErrNotFound},
		{codes.PermissionDenied, common.ErrPermissionDenied},
		{codes.Unavailable, common.ErrUnavailable},
		{codes.Internal, common.ErrInternal},
		{codes.Canceled, context.Canceled},
		{codes.DeadlineExceeded, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		err := c.mapError(status.Error(tt.code, "m"))
		require.ErrorIs(t, err, tt.want, tt.code.String())
		require.Equal(t, "m", err.Error())
	}

	require.NoError(t, c.mapError(nil))

	other := c.mapError(status.Error(codes.ResourceExhausted, "big"))
	require.Contains(t, other.Error(), "rpc error")

	plain := errors.New("plain")
	require.ErrorIs(t, c.mapError(plain), plain)
}

func TestConnect_Failures(t *testing.T) {
	c := NewGRPCClient(100*time.Millisecond, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return nil, errors.New("refused")
	}))

	err := c.Connect(context.Background(), "passthrough:///nowhere")
	require.ErrorIs(t, err, common.ErrConnection)
	require.False(t, c.Connected())

	err = c.Connect(context.Background(), "  ")
	require.ErrorIs(t, err, common.ErrConnection)
}

/*************
 * end to end over bufconn
 *************/

func startServer(t *testing.T) (string, grpc.DialOption) {
	t.Helper()

	g, err := sandbox.New(t.TempDir())
	require.NoError(t, err)

	s, err := servergrpc.NewGRPCServer("bufconn", logging.Nop{},
		dirlist.New(g, dirlist.Options{}, logging.Nop{}),
		upload.NewService(g, locks.New(), logging.Nop{}),
		time.Second)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return g.Root(), grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func connect(t *testing.T) (*GRPCClient, string) {
	t.Helper()
	root, dialer := startServer(t)
	c := NewGRPCClient(2*time.Second, dialer)
	require.NoError(t, c.Connect(context.Background(), "passthrough:///bufnet"))
	t.Cleanup(func() { _ = c.Close() })
	return c, root
}

func sendFile(t *testing.T, c *GRPCClient, data []byte, name, dir string) (*UploadResult, error) {
	t.Helper()
	ch := transfer.NewQueue()
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return transfer.NewProducer().Produce(ctx, bytes.NewReader(data), name, dir, ch)
	})

	var res *UploadResult
	g.Go(func() error {
		var err error
		res, err = c.UploadFile(ctx, ch)
		return err
	})
	return res, g.Wait()
}

func TestE2E_ConnectListUpload(t *testing.T) {
	c, root := connect(t)
	assert.True(t, c.Connected())
	assert.Equal(t, "passthrough:///bufnet", c.Target())

	entries, err := c.ListDirectory(context.Background(), "/")
	require.NoError(t, err)
	assert.Empty(t, entries)

	data := bytes.Repeat([]byte{0xAB}, 3*transfer.ChunkSize+17)
	res, err := sendFile(t, c, data, "blob.bin", "/deep/er")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "196625")

	got, err := os.ReadFile(filepath.Join(root, "deep", "er", "blob.bin"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, got))

	entries, err = c.ListDirectory(context.Background(), "deep")
	require.NoError(t, err)
	assert.Equal(t, []dirlist.Entry{{Name: "er", IsDir: true}}, entries)
}

func TestE2E_ZeroByteUpload(t *testing.T) {
	c, root := connect(t)

	res, err := sendFile(t, c, nil, "empty", "")
	require.NoError(t, err)
	assert.True(t, res.Success)

	fi, err := os.Stat(filepath.Join(root, "empty"))
	require.NoError(t, err)
	assert.Zero(t, fi.Size())
}

func TestE2E_UploadErrors(t *testing.T) {
	c, _ := connect(t)

	_, err := sendFile(t, c, []byte("x"), "", "")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = sendFile(t, c, []byte("x"), "f", "../../../x")
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	_, err = c.ListDirectory(context.Background(), "../..")
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestE2E_ChannelClosedWithoutEOF(t *testing.T) {
	c, root := connect(t)

	ch := make(chan *pb.FileChunk, 2)
	ch <- &pb.FileChunk{Filename: "cut.bin", Data: []byte("partial")}
	close(ch)

	_, err := c.UploadFile(context.Background(), ch)
	require.ErrorIs(t, err, ErrNoEOF)

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(root)
		return err == nil && len(entries) == 0
	}, 2*time.Second, 10*time.Millisecond, "server must discard the partial upload")
}

func TestE2E_Reconnect(t *testing.T) {
	c, _ := connect(t)

	_, dialer2 := startServer(t)
	c.dialOpts = []grpc.DialOption{dialer2}
	require.NoError(t, c.Connect(context.Background(), "passthrough:///bufnet2"))
	assert.Equal(t, "passthrough:///bufnet2", c.Target())

	_, err := c.ListDirectory(context.Background(), "/")
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.False(t, c.Connected())
}
