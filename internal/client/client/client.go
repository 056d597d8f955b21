package client

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
)

// UploadResult is the server's answer to a finished upload.
type UploadResult struct {
	Success bool
	Message string
}

type Client interface {
	Connect(ctx context.Context, address string) error
	Connected() bool
	Target() string
	ListDirectory(ctx context.Context, path string) ([]dirlist.Entry, error)
	UploadFile(ctx context.Context, chunks <-chan *pb.FileChunk) (*UploadResult, error)
	Close() error
}
