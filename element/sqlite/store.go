package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/internal/conv"
	_ "modernc.org/sqlite" // database/sql driver
)

const schema = `
CREATE TABLE IF NOT EXISTS descriptors (
	key        TEXT PRIMARY KEY,
	type_label TEXT NOT NULL,
	vector     BLOB NOT NULL
);
`

// bulkChunkSize caps the number of bound parameters per
// SELECT ... IN query, staying well under SQLite's variable limit.
const bulkChunkSize = 500

// Options configure Open.
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

// Store owns the database handle and descriptor table of one SQLite
// file. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
	dim  int
}

// Open stores are registered by cleaned path so decoded elements can
// reattach without a handle of their own.
var (
	registryMu sync.Mutex
	registry   = map[string]*Store{}
)

// Open opens (creating if necessary) the SQLite database at path and
// bootstraps the descriptor table. Opening a path that is already open
// returns the existing store; the dimension must then agree.
func Open(ctx context.Context, path string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	path = filepath.Clean(path)

	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[path]; ok {
		if opts.Dimension != 0 && opts.Dimension != s.dim {
			return nil, fmt.Errorf("store %q already open with dimension %d", path, s.dim)
		}
		return s, nil
	}

	s, err := open(ctx, path, opts.Dimension)
	if err != nil {
		return nil, err
	}

	registry[path] = s
	return s, nil
}

func open(ctx context.Context, path string, dim int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Store{db: db, path: path, dim: dim}, nil
}

// lookupStore resolves a registered store, reopening the database when
// the path is not currently open (e.g. an element decoded in a fresh
// process).
func lookupStore(ctx context.Context, path string, dim int) (*Store, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[path]; ok {
		return s, nil
	}

	s, err := open(ctx, path, dim)
	if err != nil {
		return nil, err
	}

	registry[path] = s
	return s, nil
}

// Close closes the database handle and drops the store from the
// registry. Elements bound to the store reopen it on next use.
func (s *Store) Close() error {
	registryMu.Lock()
	delete(registry, s.path)
	registryMu.Unlock()

	return s.db.Close()
}

// Path returns the cleaned database path the store was opened with.
func (s *Store) Path() string { return s.path }

// Dimension returns the enforced vector dimension, 0 when unchecked.
func (s *Store) Dimension() int { return s.dim }

// Element returns a descriptor element whose vector lives in this store.
func (s *Store) Element(typeLabel string, key descgo.Key) *Element {
	return &Element{
		typeLabel: typeLabel,
		key:       key,
		path:      s.path,
		dim:       s.dim,
		store:     s,
	}
}

func (s *Store) hasVector(ctx context.Context, key descgo.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM descriptors WHERE key = ?)`, string(key),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query descriptor %q: %w", string(key), err)
	}

	return exists, nil
}

func (s *Store) getVector(ctx context.Context, key descgo.Key) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT vector FROM descriptors WHERE key = ?`, string(key),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query descriptor %q: %w", string(key), err)
	}

	return conv.BytesToFloat32Slice(blob)
}

func (s *Store) setVector(ctx context.Context, typeLabel string, key descgo.Key, v []float32) error {
	if v == nil {
		return descgo.ErrInvalidVector
	}
	if s.dim > 0 && len(v) != s.dim {
		return &descgo.DimensionMismatchError{Expected: s.dim, Actual: len(v)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO descriptors (key, type_label, vector)
		VALUES (?, ?, ?)
	`, string(key), typeLabel, conv.Float32SliceToBytes(v))
	if err != nil {
		return fmt.Errorf("store descriptor %q: %w", string(key), err)
	}

	return nil
}

// bulkVectors fetches vectors for keys in chunked SELECT ... IN queries.
// Keys without a stored vector are omitted from the result.
func (s *Store) bulkVectors(ctx context.Context, keys []descgo.Key) ([]descgo.KeyVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pairs := make([]descgo.KeyVector, 0, len(keys))

	for start := 0; start < len(keys); start += bulkChunkSize {
		end := min(start+bulkChunkSize, len(keys))

		var err error
		pairs, err = s.queryChunk(ctx, keys[start:end], pairs)
		if err != nil {
			return nil, err
		}
	}

	return pairs, nil
}

func (s *Store) queryChunk(ctx context.Context, chunk []descgo.Key, out []descgo.KeyVector) ([]descgo.KeyVector, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

	args := make([]any, len(chunk))
	for i, k := range chunk {
		args[i] = string(k)
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT key, vector FROM descriptors WHERE key IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("bulk query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key  string
			blob []byte
		)
		if err := rows.Scan(&key, &blob); err != nil {
			return nil, fmt.Errorf("scan bulk row: %w", err)
		}

		vec, err := conv.BytesToFloat32Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("decode vector for %q: %w", key, err)
		}

		out = append(out, descgo.KeyVector{Key: descgo.Key(key), Vector: vec})
	}

	return out, rows.Err()
}
