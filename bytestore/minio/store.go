package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/descgo/bytestore"
	"github.com/minio/minio-go/v7"
)

// Store implements bytestore.ByteStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	key    string
}

var _ bytestore.ByteStore = (*Store)(nil)

// NewStore creates a byte store addressing the object at bucket/key.
func NewStore(client *minio.Client, bucket, key string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

// IsEmpty reports whether the object is absent or zero-length.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return info.Size == 0, nil
}

// GetBytes downloads the object, or returns nil when it is absent or empty.
func (s *Store) GetBytes(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = obj.Close() }()

	// The client opens the object lazily, so a missing key only
	// surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// SetBytes uploads the blob.
func (s *Store) SetBytes(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

func isNotFound(err error) bool {
	errResp := minio.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.Code == "NotFound"
}
