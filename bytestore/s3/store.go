package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"hash/crc32"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/descgo/bytestore"
)

// Client is the subset of the S3 API used by the store.
// *s3.Client satisfies it.
type Client interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures the S3 byte store.
type Options struct {
	// PartSize is the part size for multipart uploads.
	// Default: 8MB (larger than SDK default of 5MB for better throughput)
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5 (matches SDK default)
	Concurrency int

	// MultipartThreshold is the blob size at or above which the
	// multipart uploader is used instead of a single PutObject.
	// Default: 8MB
	MultipartThreshold int64

	// EnableChecksum enables CRC32C integrity validation on writes.
	// Default: true
	EnableChecksum bool
}

// Store implements bytestore.ByteStore for a single S3 object.
type Store struct {
	client   Client
	bucket   string
	key      string
	uploader *manager.Uploader
	opts     Options
}

var _ bytestore.ByteStore = (*Store)(nil)

// NewStore creates a byte store addressing the object at bucket/key.
func NewStore(client Client, bucket, key string, optFns ...func(o *Options)) *Store {
	opts := Options{
		PartSize:           8 * 1024 * 1024,
		Concurrency:        5,
		MultipartThreshold: 8 * 1024 * 1024,
		EnableChecksum:     true,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Store{
		client: client,
		bucket: bucket,
		key:    key,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = opts.PartSize
			u.Concurrency = opts.Concurrency
		}),
		opts: opts,
	}
}

// IsEmpty reports whether the object is absent or zero-length.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return aws.ToInt64(head.ContentLength) == 0, nil
}

// GetBytes downloads the object, or returns nil when it is absent or empty.
func (s *Store) GetBytes(ctx context.Context) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// SetBytes uploads the blob, switching to multipart for large payloads.
func (s *Store) SetBytes(ctx context.Context, data []byte) error {
	if int64(len(data)) >= s.opts.MultipartThreshold {
		input := &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key),
			Body:   bytes.NewReader(data),
		}
		if s.opts.EnableChecksum {
			input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
		}

		_, err := s.uploader.Upload(ctx, input)
		return err
	}

	if s.opts.EnableChecksum {
		return putWithChecksum(ctx, s.client, s.bucket, s.key, data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	return err
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// computeCRC32C computes the CRC32C checksum and returns it as base64 (S3 format).
func computeCRC32C(data []byte) string {
	sum := crc32.Checksum(data, castagnoli)
	// S3 expects base64-encoded big-endian bytes
	b := []byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
	return base64.StdEncoding.EncodeToString(b)
}

// putWithChecksum uploads a small blob with CRC32C integrity validation.
func putWithChecksum(ctx context.Context, client Client, bucket, key string, data []byte) error {
	checksum := computeCRC32C(data)

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(bucket),
		Key:            aws.String(key),
		Body:           bytes.NewReader(data),
		ContentLength:  aws.Int64(int64(len(data))),
		ChecksumCRC32C: aws.String(checksum),
	})

	return err
}
