package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/transfer"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	"golang.org/x/sync/errgroup"
)

type localFile interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

var openLocal = func(name string) (localFile, error) {
	return os.Open(name)
}

// Upload summarizes a finished transfer.
type Upload struct {
	Local     string
	Name      string
	TargetDir string
	Size      int64
	Message   string
}

type TransferService interface {
	Upload(ctx context.Context, localPath, targetDir string) (*Upload, error)
}

type transferService struct {
	client client.Client
	guard  *sandbox.Guard
	logger logging.Logger
}

// NewTransferService uploads files found under the root of guard through c.
func NewTransferService(c client.Client, guard *sandbox.Guard, logger logging.Logger) TransferService {
	return &transferService{client: c, guard: guard, logger: logger.With("module", "transfer")}
}

// Upload sends the local file at localPath (relative to the local root) into
// targetDir on the server, keeping its base name. Reading runs in its own
// goroutine and hands chunks over a bounded queue, so disk reads never block
// the network sender and vice versa. The first failure cancels both sides.
func (s *transferService) Upload(ctx context.Context, localPath, targetDir string) (*Upload, error) {
	if !s.client.Connected() {
		return nil, client.ErrNotConnected
	}

	path, err := s.guard.Resolve(localPath)
	if err != nil {
		return nil, err
	}

	f, err := openLocal(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrInternal, localPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", common.ErrInternal, localPath, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", common.ErrInvalidArgument, localPath)
	}

	name := filepath.Base(path)
	queue := transfer.NewQueue()

	s.logger.Info(ctx, "upload started", "file", path, "size", fi.Size(), "target_dir", targetDir)

	g, gctx := errgroup.WithContext(ctx)
	var readErr error
	g.Go(func() error {
		readErr = transfer.NewProducer().Produce(gctx, f, name, targetDir, queue)
		return readErr
	})

	var res *client.UploadResult
	g.Go(func() error {
		var err error
		res, err = s.client.UploadFile(gctx, queue)
		return err
	})

	if err := g.Wait(); err != nil {
		// a failed read closes the queue early, so the sender may finish
		// first with ErrNoEOF; the read error is the cause
		if readErr != nil && !errors.Is(readErr, context.Canceled) && !errors.Is(readErr, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", common.ErrInternal, readErr)
		}
		s.logger.Warn(ctx, "upload failed", "file", path, "error", err)
		return nil, err
	}

	if !res.Success {
		return nil, fmt.Errorf("%w: %s", common.ErrInternal, res.Message)
	}

	s.logger.Info(ctx, "upload finished", "file", path, "message", res.Message)
	return &Upload{Local: path, Name: name, TargetDir: targetDir, Size: fi.Size(), Message: res.Message}, nil
}
