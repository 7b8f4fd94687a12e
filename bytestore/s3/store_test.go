package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg)

	// Use a unique key for this test run
	key := fmt.Sprintf("test-descgo-%d/cache.bin", time.Now().UnixNano())
	store := NewStore(client, bucket, key)

	defer func() {
		_, _ = client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
	}()

	// Missing object reads as empty
	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	data, err := store.GetBytes(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	// Write and read back
	payload := make([]byte, 1024*1024) // 1MB
	_, err = rand.Read(payload)
	require.NoError(t, err)

	require.NoError(t, store.SetBytes(ctx, payload))

	empty, err = store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)

	got, err := store.GetBytes(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
