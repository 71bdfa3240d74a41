package minio

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitgo/source"
)

// TestIntegration_Minio requires a running MinIO instance.
// Skip if not available.
func TestIntegration_Minio(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-bitgo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	data := []byte("hello minio world")
	_, err = client.PutObject(ctx, bucket, "trace.bin", bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	require.NoError(t, err)
	defer func() {
		_ = client.RemoveObject(ctx, bucket, "trace.bin", minio.RemoveObjectOptions{})
	}()

	obj, err := Open(ctx, client, bucket, "trace.bin", WithThrottle(1<<20))
	require.NoError(t, err)
	defer obj.Close()

	require.Equal(t, int64(len(data)), obj.Size())

	buf := make([]byte, 5)
	n, err := obj.ReadAt(buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	// Tail read past the end
	n, err = obj.ReadAt(buf, int64(len(data))-3)
	assert.Equal(t, 3, n)
	assert.ErrorIs(t, err, io.EOF)

	got, err := source.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = Open(ctx, client, bucket, "nonexistent.bin")
	assert.ErrorIs(t, err, source.ErrNotFound)
}
