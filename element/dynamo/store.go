package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/internal/conv"
)

// Item attribute names. The partition key is the descriptor key.
const (
	attrUUID      = "uuid"
	attrTypeLabel = "type_label"
	attrVector    = "vector"
)

// batchGetLimit is the BatchGetItem page size imposed by DynamoDB.
const batchGetLimit = 100

// Client is the interface for DynamoDB operations, allowing for easier
// testing and mocking.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// Options configure NewStore.
type Options struct {
	// Dimension, when > 0, is enforced on every SetVector; a vector of
	// any other length is rejected with *descgo.DimensionMismatchError.
	// 0 disables the check.
	Dimension int
}

// WithDimension enforces a fixed vector dimension on the store.
func WithDimension(dim int) func(o *Options) {
	return func(o *Options) {
		o.Dimension = dim
	}
}

// Store binds a DynamoDB table holding descriptor vectors.
// Safe for concurrent use.
type Store struct {
	client Client
	table  string
	dim    int
}

// Bound stores are registered by table name so decoded elements can
// reattach. DynamoDB handles carry credentials, so there is no
// registry-miss reopen path; the table must be bound explicitly.
var (
	registryMu sync.RWMutex
	registry   = map[string]*Store{}
)

// NewStore binds a DynamoDB table and registers the binding under the
// table name for element reattach.
func NewStore(client Client, table string, optFns ...func(o *Options)) *Store {
	opts := Options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	s := &Store{
		client: client,
		table:  table,
		dim:    opts.Dimension,
	}

	registryMu.Lock()
	registry[table] = s
	registryMu.Unlock()

	return s
}

func lookupStore(table string) (*Store, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[table]
	if !ok {
		return nil, fmt.Errorf("no store bound for table %q; call dynamo.NewStore first", table)
	}

	return s, nil
}

// Table returns the bound table name.
func (s *Store) Table() string { return s.table }

// Dimension returns the enforced vector dimension, 0 when unchecked.
func (s *Store) Dimension() int { return s.dim }

// Element returns a descriptor element whose vector lives in this
// store's table.
func (s *Store) Element(typeLabel string, key descgo.Key) *Element {
	return &Element{
		typeLabel: typeLabel,
		key:       key,
		table:     s.table,
		dim:       s.dim,
		store:     s,
	}
}

// DeleteVector removes the item stored under key. Deleting an absent
// key is not an error.
func (s *Store) DeleteVector(ctx context.Context, key descgo.Key) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       keyAttribute(key),
	})
	if err != nil {
		return fmt.Errorf("delete descriptor %q: %w", string(key), err)
	}

	return nil
}

func keyAttribute(key descgo.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrUUID: &types.AttributeValueMemberS{Value: string(key)},
	}
}

func (s *Store) hasVector(ctx context.Context, key descgo.Key) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.table),
		Key:                  keyAttribute(key),
		ProjectionExpression: aws.String(attrUUID),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("query descriptor %q: %w", string(key), err)
	}

	return len(out.Item) > 0, nil
}

func (s *Store) getVector(ctx context.Context, key descgo.Key) ([]float32, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyAttribute(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query descriptor %q: %w", string(key), err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	return vectorFromItem(out.Item)
}

func (s *Store) setVector(ctx context.Context, typeLabel string, key descgo.Key, v []float32) error {
	if v == nil {
		return descgo.ErrInvalidVector
	}
	if s.dim > 0 && len(v) != s.dim {
		return &descgo.DimensionMismatchError{Expected: s.dim, Actual: len(v)}
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			attrUUID:      &types.AttributeValueMemberS{Value: string(key)},
			attrTypeLabel: &types.AttributeValueMemberS{Value: typeLabel},
			attrVector:    &types.AttributeValueMemberB{Value: conv.Float32SliceToBytes(v)},
		},
	})
	if err != nil {
		return fmt.Errorf("store descriptor %q: %w", string(key), err)
	}

	return nil
}

// bulkVectors fetches vectors for keys in BatchGetItem pages, retrying
// unprocessed keys until the service has answered for all of them.
// Keys without an item are omitted from the result.
func (s *Store) bulkVectors(ctx context.Context, keys []descgo.Key) ([]descgo.KeyVector, error) {
	pairs := make([]descgo.KeyVector, 0, len(keys))

	for start := 0; start < len(keys); start += batchGetLimit {
		end := min(start+batchGetLimit, len(keys))

		var err error
		pairs, err = s.batchGet(ctx, keys[start:end], pairs)
		if err != nil {
			return nil, err
		}
	}

	return pairs, nil
}

func (s *Store) batchGet(ctx context.Context, chunk []descgo.Key, out []descgo.KeyVector) ([]descgo.KeyVector, error) {
	requestKeys := make([]map[string]types.AttributeValue, len(chunk))
	for i, key := range chunk {
		requestKeys[i] = keyAttribute(key)
	}

	request := map[string]types.KeysAndAttributes{
		s.table: {
			Keys:           requestKeys,
			ConsistentRead: aws.Bool(true),
		},
	}

	for len(request) > 0 {
		resp, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: request,
		})
		if err != nil {
			return nil, fmt.Errorf("batch get descriptors: %w", err)
		}

		for _, item := range resp.Responses[s.table] {
			keyAttr, ok := item[attrUUID].(*types.AttributeValueMemberS)
			if !ok {
				return nil, errors.New("invalid uuid attribute in DynamoDB item")
			}

			vec, err := vectorFromItem(item)
			if err != nil {
				return nil, err
			}

			out = append(out, descgo.KeyVector{Key: descgo.Key(keyAttr.Value), Vector: vec})
		}

		// The service guarantees forward progress on retried keys.
		request = resp.UnprocessedKeys
	}

	return out, nil
}

func vectorFromItem(item map[string]types.AttributeValue) ([]float32, error) {
	vecAttr, ok := item[attrVector].(*types.AttributeValueMemberB)
	if !ok {
		return nil, errors.New("invalid vector attribute in DynamoDB item")
	}

	return conv.BytesToFloat32Slice(vecAttr.Value)
}
