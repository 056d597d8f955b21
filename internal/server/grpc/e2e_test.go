package grpc

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	"github.com/dmitrijs2005/gophdrive/internal/server/locks"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type env struct {
	root   string
	locks  *locks.Coordinator
	client pb.FileServiceClient
}

func startServer(t *testing.T) *env {
	t.Helper()

	g, err := sandbox.New(t.TempDir())
	require.NoError(t, err)
	coord := locks.New()

	s, err := NewGRPCServer("bufconn", logging.Nop{},
		dirlist.New(g, dirlist.Options{SkipStaging: true}, logging.Nop{}),
		upload.NewService(g, coord, logging.Nop{}),
		time.Second)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})

	return &env{root: g.Root(), locks: coord, client: pb.NewFileServiceClient(conn)}
}

func sendChunks(t *testing.T, c pb.FileServiceClient, chunks ...*pb.FileChunk) (*pb.UploadStatus, error) {
	t.Helper()
	stream, err := c.UploadFile(context.Background())
	require.NoError(t, err)
	for _, ch := range chunks {
		if err := stream.Send(ch); err != nil {
			break
		}
	}
	return stream.CloseAndRecv()
}

func TestE2E_UploadThenList(t *testing.T) {
	e := startServer(t)

	payload := bytes.Repeat([]byte("0123456789"), 20000)
	st, err := sendChunks(t, e.client,
		&pb.FileChunk{Filename: "big.bin", TargetDir: "/in/nested", Data: payload[:65536]},
		&pb.FileChunk{Data: payload[65536:131072]},
		&pb.FileChunk{Data: payload[131072:], Eof: true},
	)
	require.NoError(t, err)
	assert.True(t, st.GetSuccess())
	assert.Contains(t, st.GetMessage(), "200000")

	got, err := os.ReadFile(filepath.Join(e.root, "in", "nested", "big.bin"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got))

	resp, err := e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "/in/nested"})
	require.NoError(t, err)
	require.Len(t, resp.GetEntries(), 1)
	assert.Equal(t, "big.bin", resp.GetEntries()[0].GetName())
	assert.False(t, resp.GetEntries()[0].GetIsDir())

	root, err := e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "/"})
	require.NoError(t, err)
	require.Len(t, root.GetEntries(), 1)
	assert.Equal(t, "in", root.GetEntries()[0].GetName())
	assert.True(t, root.GetEntries()[0].GetIsDir())
}

func TestE2E_ListDuringUpload(t *testing.T) {
	e := startServer(t)

	stream, err := e.client.UploadFile(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.Send(&pb.FileChunk{Filename: "a.txt", Data: []byte("part")}))

	// the staging file is the only thing in the root
	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(e.root)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 5*time.Millisecond)

	resp, err := e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "/"})
	require.NoError(t, err)
	assert.Empty(t, resp.GetEntries())

	require.NoError(t, stream.Send(&pb.FileChunk{Data: []byte("!"), Eof: true}))
	_, err = stream.CloseAndRecv()
	require.NoError(t, err)

	resp, err = e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "/"})
	require.NoError(t, err)
	require.Len(t, resp.GetEntries(), 1)
	assert.Equal(t, "a.txt", resp.GetEntries()[0].GetName())
}

func TestE2E_ListErrors(t *testing.T) {
	e := startServer(t)

	_, err := e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "../../../../etc"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "../../../../etc-does-not-exist"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestE2E_UploadRejections(t *testing.T) {
	e := startServer(t)

	_, err := sendChunks(t, e.client, &pb.FileChunk{TargetDir: "x", Data: []byte("a"), Eof: true})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = sendChunks(t, e.client, &pb.FileChunk{Filename: "f", TargetDir: "../../up", Eof: true})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = sendChunks(t, e.client)
	assert.Equal(t, codes.Internal, status.Code(err))

	entries, err := os.ReadDir(e.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestE2E_SamePathContention(t *testing.T) {
	e := startServer(t)
	target := filepath.Join(e.root, "shared.txt")

	first, err := e.client.UploadFile(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Send(&pb.FileChunk{Filename: "shared.txt", Data: []byte("one")}))

	require.Eventually(t, func() bool { return e.locks.Held(target) }, 2*time.Second, 5*time.Millisecond)

	_, err = sendChunks(t, e.client, &pb.FileChunk{Filename: "shared.txt", Data: []byte("two"), Eof: true})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	require.NoError(t, first.Send(&pb.FileChunk{Data: []byte("!"), Eof: true}))
	st, err := first.CloseAndRecv()
	require.NoError(t, err)
	assert.True(t, st.GetSuccess())

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "one!", string(got))

	// retry after the winner finished
	_, err = sendChunks(t, e.client, &pb.FileChunk{Filename: "shared.txt", Data: []byte("two"), Eof: true})
	require.NoError(t, err)
	got, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestE2E_DifferentPathsConcurrently(t *testing.T) {
	e := startServer(t)

	first, err := e.client.UploadFile(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Send(&pb.FileChunk{Filename: "a.txt", Data: []byte("a")}))
	require.Eventually(t, func() bool { return e.locks.Held(filepath.Join(e.root, "a.txt")) }, 2*time.Second, 5*time.Millisecond)

	_, err = sendChunks(t, e.client, &pb.FileChunk{Filename: "b.txt", Data: []byte("b"), Eof: true})
	require.NoError(t, err)

	require.NoError(t, first.Send(&pb.FileChunk{Eof: true}))
	_, err = first.CloseAndRecv()
	require.NoError(t, err)

	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := os.Stat(filepath.Join(e.root, name))
		assert.NoError(t, err, name)
	}
}

func TestE2E_AbortedUploadLeavesNothing(t *testing.T) {
	e := startServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := e.client.UploadFile(ctx)
	require.NoError(t, err)
	require.NoError(t, stream.Send(&pb.FileChunk{Filename: "partial.bin", Data: []byte("half")}))

	target := filepath.Join(e.root, "partial.bin")
	require.Eventually(t, func() bool { return e.locks.Held(target) }, 2*time.Second, 5*time.Millisecond)
	cancel()

	require.Eventually(t, func() bool { return !e.locks.Held(target) }, 2*time.Second, 5*time.Millisecond)
	entries, err := os.ReadDir(e.root)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither the file nor its staging copy may remain")
}

func TestE2E_ListIdempotent(t *testing.T) {
	e := startServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.root, "a"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(e.root, "b"), 0o755))

	first, err := e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "/"})
	require.NoError(t, err)
	second, err := e.client.ListDir(context.Background(), &pb.ListDirRequest{Path: "/"})
	require.NoError(t, err)

	names := func(r *pb.ListDirResponse) map[string]bool {
		m := map[string]bool{}
		for _, e := range r.GetEntries() {
			m[e.GetName()] = e.GetIsDir()
		}
		return m
	}
	assert.Equal(t, map[string]bool{"a": false, "b": true}, names(first))
	assert.Equal(t, names(first), names(second))
}
