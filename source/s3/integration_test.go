package s3

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitgo/source"
)

func TestIntegration_S3(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg)
	key := fmt.Sprintf("test-bitgo-%d/capture.bin", time.Now().UnixNano())

	data := make([]byte, 1<<20)
	rand.Read(data)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	require.NoError(t, err)
	defer func() {
		_, _ = client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
	}()

	t.Run("RangedReads", func(t *testing.T) {
		obj, err := Open(ctx, client, bucket, key, WithMaxInflight(4))
		require.NoError(t, err)
		defer obj.Close()

		assert.Equal(t, int64(len(data)), obj.Size())

		buf := make([]byte, 100)
		n, err := obj.ReadAt(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, 100, n)
		assert.Equal(t, data[:100], buf)

		n, err = obj.ReadAt(buf, 1024)
		require.NoError(t, err)
		assert.Equal(t, 100, n)
		assert.Equal(t, data[1024:1124], buf)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := Open(ctx, client, bucket, key+".nonexistent")
		assert.ErrorIs(t, err, source.ErrNotFound)
	})

	t.Run("Fetch", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "capture.bin")
		src, err := Fetch(ctx, client, bucket, key, dst)
		require.NoError(t, err)
		defer src.Close()

		got, err := source.ReadAll(src)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})
}
