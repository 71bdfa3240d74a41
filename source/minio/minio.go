// Package minio provides a source.Source backed by MinIO or any
// S3-compatible object storage (Ceph, SeaweedFS, Garage).
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//
//	src, err := miniosrc.Open(ctx, client, "captures", "trace.bin")
//
// Reads are ranged GETs; wrap the result in source.NewCaching when the
// decode pattern touches adjacent fields repeatedly.
package minio

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"golang.org/x/time/rate"

	"github.com/hupe1980/bitgo/source"
)

// Object is a source.Source reading a bucket object through ranged GETs.
type Object struct {
	client  *minio.Client
	bucket  string
	key     string
	size    int64
	limiter *rate.Limiter // nil if unthrottled
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

// Open verifies the object exists and returns it as a Source. Missing
// objects map to source.ErrNotFound.
func Open(ctx context.Context, client *minio.Client, bucket, key string, optFns ...Option) (*Object, error) {
	info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, source.ErrNotFound
		}
		return nil, err
	}

	o := &Object{
		client: client,
		bucket: bucket,
		key:    key,
		size:   info.Size,
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
	if err := o.waitIO(ctx, len(p)); err != nil {
		return 0, err
	}

	end := off + int64(len(p)) - 1
	if end >= o.size {
		end = o.size - 1
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end); err != nil {
		return 0, err
	}

	obj, err := o.client.GetObject(ctx, o.bucket, o.key, opts)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:end-off+1])
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

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

var _ source.Source = (*Object)(nil)
