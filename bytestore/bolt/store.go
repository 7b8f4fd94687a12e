package bolt

import (
	"context"
	"time"

	"github.com/hupe1980/descgo/bytestore"
	"go.etcd.io/bbolt"
)

var bucketBlobs = []byte("blobs")

// Open opens (or creates) a bbolt database file for byte stores.
func Open(path string) (*bbolt.DB, error) {
	return bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
}

// Store implements bytestore.ByteStore on top of a bbolt database.
type Store struct {
	db   *bbolt.DB
	name []byte
}

var _ bytestore.ByteStore = (*Store)(nil)

// NewStore creates a byte store persisting its blob under name in the
// shared blobs bucket. The bucket is created if missing.
func NewStore(db *bbolt.DB, name string) (*Store, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlobs)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Store{db: db, name: []byte(name)}, nil
}

// IsEmpty reports whether no blob is stored under the store's name.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var empty bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		empty = len(tx.Bucket(bucketBlobs).Get(s.name)) == 0
		return nil
	})
	return empty, err
}

// GetBytes reads the blob, or returns nil when it is absent or empty.
func (s *Store) GetBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get(s.name)
		if len(v) == 0 {
			return nil
		}
		// Bolt memory is only valid for the duration of the transaction.
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetBytes writes the blob in a single transaction.
func (s *Store) SetBytes(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put(s.name, data)
	})
}
