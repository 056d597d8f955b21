// Package mirror copies completed uploads to an S3 compatible bucket.
//
// Copies run on a background worker fed by a bounded queue, so a slow or
// unreachable object store never delays an upload response. When the queue
// is full the job is dropped and counted; the file itself stays safely under
// the storage root.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophdrive/internal/cryptox"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/metrics"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
)

// DefaultQueueSize is the number of copies that may wait for the worker.
const DefaultQueueSize = 64

// ErrSuperseded is returned by a copy whose file no longer holds the content
// of the upload that queued it. The later upload queues its own copy.
var ErrSuperseded = errors.New("file replaced by a later upload")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectPutter is the part of *s3.Client the mirror needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options describes the target bucket. BaseEndpoint is set for MinIO and
// other self-hosted stores.
type Options struct {
	Bucket       string
	Prefix       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	QueueSize    int
}

// NewS3Client builds a client with static credentials. Path-style addressing
// is used whenever a custom endpoint is configured.
func NewS3Client(ctx context.Context, o Options) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKey,
			o.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	}), nil
}

type job struct {
	id       string
	key      string
	file     string
	checksum string
}

type Mirror struct {
	client ObjectPutter
	bucket string
	prefix string
	jobs   chan job
	logger logging.Logger
}

func New(client ObjectPutter, o Options, logger logging.Logger) *Mirror {
	size := o.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Mirror{
		client: client,
		bucket: o.Bucket,
		prefix: o.Prefix,
		jobs:   make(chan job, size),
		logger: logger.With("module", "mirror"),
	}
}

// Key maps a root-relative path to the object key.
func (m *Mirror) Key(rel string) string {
	if m.prefix == "" {
		return rel
	}
	return path.Join(m.prefix, rel)
}

// UploadFinished implements upload.Observer; only completed uploads are
// queued.
func (m *Mirror) UploadFinished(ctx context.Context, o upload.Outcome) {
	if o.Err != nil || o.Path == "" {
		return
	}
	if !m.enqueue(job{id: o.ID, key: m.Key(o.Path), file: o.File, checksum: o.Checksum}) {
		m.logger.Warn(ctx, "mirror queue full, copy dropped", "id", o.ID, "path", o.Path)
	}
}

// enqueue hands j to the worker without blocking.
func (m *Mirror) enqueue(j job) bool {
	select {
	case m.jobs <- j:
		return true
	default:
		metrics.RecordMirror(metrics.ResultDropped)
		return false
	}
}

// Run copies queued files until ctx is done. Jobs still queued at that point
// are abandoned.
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-m.jobs:
			err := m.put(ctx, j)
			if errors.Is(err, ErrSuperseded) {
				metrics.RecordMirror(metrics.ResultSuperseded)
				m.logger.Info(ctx, "mirror copy skipped", "id", j.id, "key", j.key, "reason", err)
				continue
			}
			if err != nil {
				metrics.RecordMirror(metrics.ResultFailed)
				m.logger.Error(ctx, "mirror copy failed", "id", j.id, "key", j.key, "error", err)
				continue
			}
			metrics.RecordMirror(metrics.ResultSuccess)
			m.logger.Debug(ctx, "mirrored", "id", j.id, "bucket", m.bucket, "key", j.key)
		}
	}
}

// put sends the file under j.key. Uploads replace files by rename, so the
// open descriptor keeps pointing at one version of the content; it is hashed
// first and sent only if it is still the version j was queued for.
func (m *Mirror) put(ctx context.Context, j job) error {
	f, err := os.Open(j.file)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	if j.checksum != "" {
		h := cryptox.NewDigest()
		if _, err := io.Copy(h, f); err != nil {
			return fmt.Errorf("digest %q: %w", j.file, err)
		}
		if sum := cryptox.HexSum(h); sum != j.checksum {
			return fmt.Errorf("%w: %s is %s, queued %s", ErrSuperseded, j.key, sum, j.checksum)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(j.key),
		Body:          f,
		ContentLength: aws.Int64(fi.Size()),
		ContentType:   aws.String("application/octet-stream"),
	}
	if j.checksum != "" {
		in.Metadata = map[string]string{cryptox.DigestAlgorithm: j.checksum}
	}

	_, err = m.client.PutObject(ctx, in)
	return err
}
