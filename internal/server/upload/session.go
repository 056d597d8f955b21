// Package upload reassembles one client-streamed file under the storage root.
//
// Every upload is a Session that moves through
//
//	AwaitingFirstChunk -> Writing -> Finalizing -> Completed
//
// and drops to Failed from any non-terminal state. Data is written to a
// hidden staging file next to the destination and renamed into place only
// after the eof chunk, so an aborted upload never leaves a partial file under
// the target name.
package upload

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/cryptox"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	"github.com/dmitrijs2005/gophdrive/internal/server/locks"
	"github.com/google/uuid"
)

var (
	mkdirAll = os.MkdirAll
	openFile = os.OpenFile
)

// ErrPathBusy is returned when another upload holds the destination path.
var ErrPathBusy = fmt.Errorf("%w: file is currently being written by another client, try again later", common.ErrUnavailable)

type State int32

const (
	AwaitingFirstChunk State = iota
	Writing
	Finalizing
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingFirstChunk:
		return "awaiting_first_chunk"
	case Writing:
		return "writing"
	case Finalizing:
		return "finalizing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ChunkReceiver is the receiving half of an upload stream.
// grpc.ClientStreamingServer[pb.FileChunk, pb.UploadStatus] satisfies it.
type ChunkReceiver interface {
	Recv() (*pb.FileChunk, error)
}

// Result describes a completed upload.
type Result struct {
	// File is the canonical absolute path of the stored file.
	File string
	// Bytes is the number of payload bytes written.
	Bytes int64
	// Checksum is the hex digest of the content, see cryptox.DigestAlgorithm.
	Checksum string
}

// Message is the human readable confirmation sent back to the client.
func (r *Result) Message() string {
	return fmt.Sprintf("File uploaded successfully. Total bytes written: %d.", r.Bytes)
}

// Outcome is reported to observers once a session has finished, whether it
// stored a file or not.
type Outcome struct {
	ID        string
	Filename  string
	TargetDir string
	// File is the canonical destination, empty if it was never resolved.
	File string
	// Path is File relative to the storage root, slash separated.
	Path     string
	Bytes    int64
	Checksum string
	Err      error
	Started  time.Time
	Finished time.Time
}

// Observer is notified after every session. UploadFinished runs on the
// upload goroutine after the path lock has been released.
type Observer interface {
	UploadFinished(ctx context.Context, o Outcome)
}

type Option func(*Service)

// WithObserver registers o for every session created by the service.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, o)
	}
}

// Service creates sessions bound to one sandbox and one lock coordinator.
type Service struct {
	guard     *sandbox.Guard
	locks     *locks.Coordinator
	logger    logging.Logger
	observers []Observer
}

func NewService(guard *sandbox.Guard, coordinator *locks.Coordinator, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		guard:  guard,
		locks:  coordinator,
		logger: logger.With("module", "upload"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession prepares a session in the AwaitingFirstChunk state.
func (s *Service) NewSession() *Session {
	return &Session{svc: s, id: uuid.NewString()}
}

// Receive runs a fresh session over stream.
func (s *Service) Receive(ctx context.Context, stream ChunkReceiver) (*Result, error) {
	return s.NewSession().Run(ctx, stream)
}

// Session is a single upload. It is not safe for concurrent Run calls, but
// State may be read from any goroutine.
type Session struct {
	svc   *Service
	id    string
	state atomic.Int32

	started   time.Time
	filename  string
	targetDir string

	target   sandbox.Target
	lease    *locks.Lease
	staging  string
	file     *os.File
	digest   hash.Hash
	written  int64
	checksum string
}

// ID identifies the session in logs and in the upload journal.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Run consumes stream until the eof chunk and stores the file. Errors from
// stream.Recv other than io.EOF are returned unchanged; everything else is
// one of the common sentinel errors.
func (s *Session) Run(ctx context.Context, stream ChunkReceiver) (res *Result, err error) {
	if s.State() != AwaitingFirstChunk {
		return nil, fmt.Errorf("%w: session already used", common.ErrInternal)
	}

	s.started = time.Now()
	ctx = logging.ContextWith(ctx, "upload_id", s.id)

	defer func() {
		if err != nil {
			s.abort(ctx, err)
		}
		s.lease.Release()
		s.notify(ctx, err)
	}()

	chunk, err := stream.Recv()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no data received", common.ErrInternal)
	}
	if err != nil {
		return nil, err
	}

	if err := s.open(ctx, chunk); err != nil {
		return nil, err
	}

	for {
		if err := s.write(chunk.GetData()); err != nil {
			return nil, err
		}
		if chunk.GetEof() {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunk, err = stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: stream ended before eof", common.ErrInternal)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.commit(); err != nil {
		return nil, err
	}

	s.svc.logger.Info(ctx, "upload completed", "file", s.target.File, "bytes", s.written, "checksum", s.checksum)
	return &Result{File: s.target.File, Bytes: s.written, Checksum: s.checksum}, nil
}

// open validates the first chunk, takes the path lock and creates the staging
// file. Nothing touches the filesystem before validation and locking succeed.
func (s *Session) open(ctx context.Context, first *pb.FileChunk) error {
	s.filename, s.targetDir = first.GetFilename(), first.GetTargetDir()

	if first.GetFilename() == "" {
		return fmt.Errorf("%w: filename cannot be empty", common.ErrInvalidArgument)
	}

	target, err := s.svc.guard.ResolveTarget(first.GetTargetDir(), first.GetFilename())
	if err != nil {
		return err
	}
	s.target = target

	if fi, err := os.Lstat(target.File); err == nil && fi.IsDir() {
		return fmt.Errorf("%w: %q is a directory", common.ErrInvalidArgument, first.GetFilename())
	}

	lease, ok := s.svc.locks.TryAcquire(target.File)
	if !ok {
		s.svc.logger.Warn(ctx, "concurrent write attempt", "file", target.File)
		return ErrPathBusy
	}
	s.lease = lease

	if err := mkdirAll(target.Dir, 0o750); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", common.ErrInternal, err)
	}

	staging := filex.StagingPath(target.File)
	f, err := openFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("%w: could not create file: %v", common.ErrInternal, err)
	}
	s.staging = staging
	s.file = f
	s.digest = cryptox.NewDigest()

	s.setState(Writing)
	s.svc.logger.Info(ctx, "receiving file", "file", filepath.Base(target.File), "dir", target.Dir)
	return nil
}

func (s *Session) write(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := s.file.Write(data)
	s.written += int64(n)
	s.digest.Write(data[:n])
	if err != nil {
		return fmt.Errorf("%w: failed to write data: %v", common.ErrInternal, err)
	}
	return nil
}

func (s *Session) commit() error {
	s.setState(Finalizing)

	f := s.file
	s.file = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync: %v", common.ErrInternal, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", common.ErrInternal, err)
	}

	if err := os.Rename(s.staging, s.target.File); err != nil {
		return fmt.Errorf("%w: store file: %v", common.ErrInternal, err)
	}
	s.staging = ""
	s.checksum = cryptox.HexSum(s.digest)

	s.setState(Completed)
	return nil
}

// abort discards the staging file and marks the session failed. The lease is
// released by Run.
func (s *Session) abort(ctx context.Context, cause error) {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	if s.staging != "" {
		if err := os.Remove(s.staging); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.svc.logger.Error(ctx, "failed to remove staging file", "path", s.staging, "error", err)
		}
		s.staging = ""
	}
	s.setState(Failed)
	s.svc.logger.Warn(ctx, "upload failed", "file", s.target.File, "bytes", s.written, "error", cause)
}

func (s *Session) notify(ctx context.Context, err error) {
	if len(s.svc.observers) == 0 {
		return
	}

	o := Outcome{
		ID:        s.id,
		Filename:  s.filename,
		TargetDir: s.targetDir,
		File:      s.target.File,
		Bytes:     s.written,
		Checksum:  s.checksum,
		Err:       err,
		Started:   s.started,
		Finished:  time.Now(),
	}
	if o.File != "" {
		if rel, relErr := filepath.Rel(s.svc.guard.Root(), o.File); relErr == nil {
			o.Path = filepath.ToSlash(rel)
		}
	}

	for _, obs := range s.svc.observers {
		obs.UploadFinished(ctx, o)
	}
}
