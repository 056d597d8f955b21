package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeLister struct {
	entries []dirlist.Entry
	err     error
	gotPath string
}

func (f *fakeLister) List(ctx context.Context, path string) ([]dirlist.Entry, string, error) {
	f.gotPath = path
	return f.entries, "/srv" + path, f.err
}

type fakeUploader struct {
	res      *upload.Result
	err      error
	received int
}

func (f *fakeUploader) Receive(ctx context.Context, stream upload.ChunkReceiver) (*upload.Result, error) {
	for {
		_, err := stream.Recv()
		if err != nil {
			break
		}
		f.received++
	}
	return f.res, f.err
}

// fakeUploadStream is a server-side client stream backed by a slice.
type fakeUploadStream struct {
	grpc.ServerStream
	ctx    context.Context
	chunks []*pb.FileChunk
	sent   *pb.UploadStatus
}

func (f *fakeUploadStream) Context() context.Context { return f.ctx }

func (f *fakeUploadStream) Recv() (*pb.FileChunk, error) {
	if len(f.chunks) == 0 {
		return nil, io.EOF
	}
	c := f.chunks[0]
	f.chunks = f.chunks[1:]
	return c, nil
}

func (f *fakeUploadStream) SendAndClose(s *pb.UploadStatus) error {
	f.sent = s
	return nil
}

func (f *fakeUploadStream) SetHeader(metadata.MD) error  { return nil }
func (f *fakeUploadStream) SendHeader(metadata.MD) error { return nil }
func (f *fakeUploadStream) SetTrailer(metadata.MD)       {}

// ---- helpers ----

func newServer(l Lister, u Uploader) *GRPCServer {
	s, _ := NewGRPCServer("127.0.0.1:0", logging.Nop{}, l, u, 0)
	return s
}

// ---- tests ----

func TestListDir_OK(t *testing.T) {
	l := &fakeLister{entries: []dirlist.Entry{
		{Name: "docs", IsDir: true},
		{Name: "a.txt", Size: 3},
	}}
	s := newServer(l, &fakeUploader{})

	resp, err := s.ListDir(context.Background(), &pb.ListDirRequest{Path: "/photos"})
	if err != nil {
		t.Fatalf("ListDir error: %v", err)
	}
	if l.gotPath != "/photos" {
		t.Fatalf("path not forwarded: %q", l.gotPath)
	}
	got := resp.GetEntries()
	if len(got) != 2 || got[0].GetName() != "docs" || !got[0].GetIsDir() || got[1].GetName() != "a.txt" || got[1].GetIsDir() {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestListDir_EmptyDirectory(t *testing.T) {
	s := newServer(&fakeLister{}, &fakeUploader{})

	resp, err := s.ListDir(context.Background(), &pb.ListDirRequest{})
	if err != nil {
		t.Fatalf("ListDir error: %v", err)
	}
	if len(resp.GetEntries()) != 0 {
		t.Fatalf("want no entries, got %d", len(resp.GetEntries()))
	}
}

func TestListDir_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: fmt.Errorf("%w: x", common.ErrNotFound), want: codes.NotFound},
		{err: fmt.Errorf("%w: x", common.ErrPermissionDenied), want: codes.PermissionDenied},
		{err: fmt.Errorf("%w: x", common.ErrInternal), want: codes.Internal},
		{err: errors.New("unclassified"), want: codes.Internal},
	}

	for _, tt := range tests {
		s := newServer(&fakeLister{err: tt.err}, &fakeUploader{})
		_, err := s.ListDir(context.Background(), &pb.ListDirRequest{Path: "x"})
		if status.Code(err) != tt.want {
			t.Fatalf("err %v: want %v, got %v", tt.err, tt.want, status.Code(err))
		}
	}
}

func TestUploadFile_OK(t *testing.T) {
	u := &fakeUploader{res: &upload.Result{File: "/srv/a.txt", Bytes: 42}}
	s := newServer(&fakeLister{}, u)

	stream := &fakeUploadStream{
		ctx: context.Background(),
		chunks: []*pb.FileChunk{
			{Filename: "a.txt", Data: []byte("x")},
			{Eof: true},
		},
	}
	if err := s.UploadFile(stream); err != nil {
		t.Fatalf("UploadFile error: %v", err)
	}
	if u.received != 2 {
		t.Fatalf("uploader saw %d chunks", u.received)
	}
	if !stream.sent.GetSuccess() {
		t.Fatalf("want success, got %+v", stream.sent)
	}
	if stream.sent.GetMessage() != "File uploaded successfully. Total bytes written: 42." {
		t.Fatalf("unexpected message: %q", stream.sent.GetMessage())
	}
}

func TestUploadFile_ErrorCodes(t *testing.T) {
	transport := status.Error(codes.Canceled, "client went away")

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "invalid", err: fmt.Errorf("%w: filename cannot be empty", common.ErrInvalidArgument), want: codes.InvalidArgument},
		{name: "busy", err: upload.ErrPathBusy, want: codes.Unavailable},
		{name: "escape", err: fmt.Errorf("%w: out", common.ErrPermissionDenied), want: codes.PermissionDenied},
		{name: "io", err: fmt.Errorf("%w: disk full", common.ErrInternal), want: codes.Internal},
		{name: "transport passes through", err: transport, want: codes.Canceled},
		{name: "context", err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(&fakeLister{}, &fakeUploader{err: tt.err})
			stream := &fakeUploadStream{ctx: context.Background()}

			err := s.UploadFile(stream)
			if status.Code(err) != tt.want {
				t.Fatalf("want %v, got %v (err=%v)", tt.want, status.Code(err), err)
			}
			if stream.sent != nil {
				t.Fatalf("no status must be sent on failure, got %+v", stream.sent)
			}
		})
	}
}

func TestToStatus(t *testing.T) {
	if toStatus(nil) != nil {
		t.Fatal("nil must stay nil")
	}

	err := toStatus(fmt.Errorf("%w: docs/x", common.ErrNotFound))
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound || st.Message() != "not found: docs/x" {
		t.Fatalf("unexpected status: %v", err)
	}

	orig := status.Error(codes.ResourceExhausted, "too big")
	if toStatus(orig) != orig {
		t.Fatal("status errors must pass through unchanged")
	}
}
