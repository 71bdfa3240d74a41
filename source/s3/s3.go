package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hupe1980/bitgo/source"
)

// Client is the subset of the S3 API used by this package.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Object is a source.Source reading an S3 object through ranged GETs.
type Object struct {
	client  Client
	bucket  string
	key     string
	size    int64
	limiter *rate.Limiter       // nil if unthrottled
	sem     *semaphore.Weighted // nil if uncapped
}

// Option configures an Object.
type Option func(*Object)

// WithThrottle caps read throughput in bytes per second.
func WithThrottle(bytesPerSec int64) Option {
	return func(o *Object) {
		if bytesPerSec > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), int(bytesPerSec))
		}
	}
}

// WithMaxInflight caps the number of concurrent ranged reads.
func WithMaxInflight(n int64) Option {
	return func(o *Object) {
		if n > 0 {
			o.sem = semaphore.NewWeighted(n)
		}
	}
}

// Open verifies the object exists and returns it as a Source. Missing
// objects map to source.ErrNotFound.
func Open(ctx context.Context, client Client, bucket, key string, optFns ...Option) (*Object, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, source.ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, source.ErrNotFound
		}
		return nil, err
	}

	o := &Object{
		client: client,
		bucket: bucket,
		key:    key,
		size:   *head.ContentLength,
	}
	for _, fn := range optFns {
		fn(o)
	}
	return o, nil
}

// Close is a no-op; ranged reads hold no connection between calls.
func (o *Object) Close() error {
	return nil
}

// Size returns the object size in bytes.
func (o *Object) Size() int64 {
	return o.size
}

// ReadAt implements io.ReaderAt with a ranged GET per call.
func (o *Object) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= o.size {
		return 0, io.EOF
	}

	ctx := context.Background()

	if o.sem != nil {
		if err := o.sem.Acquire(ctx, 1); err != nil {
			return 0, err
		}
		defer o.sem.Release(1)
	}
	if err := o.waitIO(ctx, len(p)); err != nil {
		return 0, err
	}

	end := off + int64(len(p)) - 1
	if end >= o.size {
		end = o.size - 1
	}

	resp, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// The ranged GET is clamped at the object end, so a request past
	// the tail comes back short. Map that to the io.ReaderAt contract.
	n, err := io.ReadFull(resp.Body, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return n, io.EOF
	}
	return n, err
}

// waitIO blocks until the throttle admits n bytes. Requests larger
// than the burst are admitted in burst-sized steps.
func (o *Object) waitIO(ctx context.Context, n int) error {
	if o.limiter == nil {
		return nil
	}
	burst := o.limiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := o.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Fetch downloads the whole object to dst using parallel ranged parts,
// then memory-maps the local copy. Use it when the access pattern
// would otherwise issue many small ranged reads.
func Fetch(ctx context.Context, client Client, bucket, key, dst string) (source.Source, error) {
	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}

	dl := manager.NewDownloader(client)
	_, err = dl.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, source.ErrNotFound
		}
		return nil, err
	}

	return source.Open(dst)
}

var _ source.Source = (*Object)(nil)
