// Package transfer turns a local byte source into the ordered chunk stream
// sent by UploadFile.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
)

const (
	// ChunkSize is the payload size of every chunk except possibly the last.
	ChunkSize = 64 * 1024
	// QueueDepth bounds how many chunks may wait between reader and sender.
	QueueDepth = 4
)

// NewQueue returns the bounded hand-off channel between a Producer and the
// sender.
func NewQueue() chan *pb.FileChunk {
	return make(chan *pb.FileChunk, QueueDepth)
}

// Producer reads a source in ChunkSize blocks.
type Producer struct {
	chunkSize int
}

func NewProducer() *Producer {
	return &Producer{chunkSize: ChunkSize}
}

// Produce reads r to the end and pushes chunks into out, closing out before
// it returns. Filename and targetDir ride on the first chunk only. The final
// chunk has Eof set; it carries the short tail of the file, or no data when
// the file is empty or a multiple of the chunk size.
//
// A read error stops production without an eof chunk, so the receiver sees
// an incomplete stream. Cancelling ctx unblocks a send on a full queue.
func (p *Producer) Produce(ctx context.Context, r io.Reader, filename, targetDir string, out chan<- *pb.FileChunk) error {
	defer close(out)

	first := true
	next := func(data []byte, eof bool) *pb.FileChunk {
		c := &pb.FileChunk{Data: data, Eof: eof}
		if first {
			c.Filename = filename
			c.TargetDir = targetDir
			first = false
		}
		return c
	}

	for {
		buf := make([]byte, p.chunkSize)
		n, err := io.ReadFull(r, buf)

		switch {
		case err == nil:
			if err := send(ctx, out, next(buf, false)); err != nil {
				return err
			}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return send(ctx, out, next(buf[:n], true))
		case errors.Is(err, io.EOF):
			return send(ctx, out, next(nil, true))
		default:
			return fmt.Errorf("read source: %w", err)
		}
	}
}

func send(ctx context.Context, out chan<- *pb.FileChunk, c *pb.FileChunk) error {
	select {
	case out <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
