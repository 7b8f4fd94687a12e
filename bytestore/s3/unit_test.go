package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockS3Client is a testify mock for the Client interface.
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.HeadObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.UploadPartOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.CreateMultipartUploadOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.CompleteMultipartUploadOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.AbortMultipartUploadOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStore_IsEmpty(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "cache.bin"
		})).Return(nil, &types.NotFound{}).Once()

		empty, err := store.IsEmpty(context.Background())
		assert.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("ZeroLength", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{
			ContentLength: aws.Int64(0),
		}, nil).Once()

		empty, err := store.IsEmpty(context.Background())
		assert.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("NonEmpty", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{
			ContentLength: aws.Int64(100),
		}, nil).Once()

		empty, err := store.IsEmpty(context.Background())
		assert.NoError(t, err)
		assert.False(t, empty)
	})

	t.Run("TransportError", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := store.IsEmpty(context.Background())
		assert.Error(t, err)
	})
}

func TestStore_GetBytes(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "cache.bin"
		})).Return(nil, &types.NoSuchKey{}).Once()

		data, err := store.GetBytes(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("Success", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("hello")),
		}, nil).Once()

		data, err := store.GetBytes(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		mockClient := new(MockS3Client)
		store := NewStore(mockClient, "test-bucket", "cache.bin")

		mockClient.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("")),
		}, nil).Once()

		data, err := store.GetBytes(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestStore_SetBytes_Checksum(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cache.bin")

	payload := []byte("content")
	wantChecksum := computeCRC32C(payload)

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Bucket == "test-bucket" &&
			*input.Key == "cache.bin" &&
			*input.ContentLength == int64(len(payload)) &&
			input.ChecksumCRC32C != nil && *input.ChecksumCRC32C == wantChecksum
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	err := store.SetBytes(context.Background(), payload)
	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestStore_SetBytes_NoChecksum(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cache.bin", func(o *Options) {
		o.EnableChecksum = false
	})

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return input.ChecksumCRC32C == nil
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	err := store.SetBytes(context.Background(), []byte("content"))
	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestStore_SetBytes_Multipart(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "cache.bin", func(o *Options) {
		o.MultipartThreshold = 1
	})

	// Below PartSize the uploader issues a single PutObject; consume the
	// body so the upload can finish.
	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Bucket == "test-bucket" &&
			*input.Key == "cache.bin" &&
			input.ChecksumAlgorithm == types.ChecksumAlgorithmCrc32c
	})).Run(func(args mock.Arguments) {
		input := args.Get(1).(*s3.PutObjectInput)
		_, _ = io.ReadAll(input.Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	err := store.SetBytes(context.Background(), []byte("content"))
	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}
