package config

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/bytestore"
	"github.com/hupe1980/descgo/bytestore/bolt"
	"github.com/hupe1980/descgo/codec"
	"go.etcd.io/bbolt"
)

// ByteStoreConfig is the nested form a byte store takes inside another
// component's configuration.
type ByteStoreConfig struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

func init() {
	RegisterElement("memory", newMemoryElement)
	RegisterSet("memory", newMemorySet)
	RegisterByteStore("memory", newMemoryByteStore)
	RegisterByteStore("local", newLocalByteStore)
	RegisterByteStore("compressed", newCompressedByteStore)
	RegisterByteStore("bolt", newBoltByteStore)
}

func newMemoryElement(_ context.Context, typeLabel string, key descgo.Key, _ json.RawMessage) (descgo.DescriptorElement, error) {
	return descgo.NewMemoryElement(typeLabel, key), nil
}

// memorySetConfig configures the memory descriptor set. Protocol 0 and
// an empty codec select the current defaults.
type memorySetConfig struct {
	CacheStore *ByteStoreConfig `json:"cache_store,omitempty"`
	Protocol   int              `json:"protocol,omitempty"`
	Codec      string           `json:"codec,omitempty"`
}

func newMemorySet(ctx context.Context, raw json.RawMessage) (descgo.DescriptorSet, error) {
	var cfg memorySetConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse memory set config: %w", err)
	}

	opts := make([]descgo.Option, 0, 3)

	if cfg.CacheStore != nil {
		store, err := NewByteStore(ctx, cfg.CacheStore.Type, cfg.CacheStore.Config)
		if err != nil {
			return nil, fmt.Errorf("build cache store: %w", err)
		}
		opts = append(opts, descgo.WithCacheStore(store))
	}
	if cfg.Protocol != 0 {
		opts = append(opts, descgo.WithProtocol(cfg.Protocol))
	}
	if cfg.Codec != "" {
		c, ok := codec.ByName(cfg.Codec)
		if !ok {
			return nil, fmt.Errorf("unknown codec: %q", cfg.Codec)
		}
		opts = append(opts, descgo.WithCodec(c))
	}

	return descgo.NewMemorySet(ctx, opts...)
}

func newMemoryByteStore(_ context.Context, _ json.RawMessage) (bytestore.ByteStore, error) {
	return bytestore.NewMemoryStore(), nil
}

type localStoreConfig struct {
	Path string `json:"path"`
}

func newLocalByteStore(_ context.Context, raw json.RawMessage) (bytestore.ByteStore, error) {
	var cfg localStoreConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse local store config: %w", err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("local byte store requires a path")
	}

	return bytestore.NewLocalStore(cfg.Path), nil
}

// compressedStoreConfig wraps a nested inner store with block
// compression. Compression defaults to lz4; "none" disables it.
type compressedStoreConfig struct {
	Inner       *ByteStoreConfig `json:"inner"`
	Compression string           `json:"compression,omitempty"`
}

func newCompressedByteStore(ctx context.Context, raw json.RawMessage) (bytestore.ByteStore, error) {
	var cfg compressedStoreConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse compressed store config: %w", err)
	}
	if cfg.Inner == nil {
		return nil, fmt.Errorf("compressed byte store requires an inner store")
	}

	compression, err := compressionByName(cfg.Compression)
	if err != nil {
		return nil, err
	}

	inner, err := NewByteStore(ctx, cfg.Inner.Type, cfg.Inner.Config)
	if err != nil {
		return nil, fmt.Errorf("build inner store: %w", err)
	}

	return bytestore.NewCompressedStore(inner, compression), nil
}

func compressionByName(name string) (bytestore.CompressionType, error) {
	switch name {
	case "":
		return bytestore.CompressionLZ4, nil
	case "none":
		return bytestore.CompressionNone, nil
	case "lz4":
		return bytestore.CompressionLZ4, nil
	case "zstd":
		return bytestore.CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression type: %q", name)
	}
}

type boltStoreConfig struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// Bolt databases are shared per cleaned path and stay open for the life
// of the process, so several configured stores can address different
// blobs in one file without fighting over the file lock.
var (
	boltMu  sync.Mutex
	boltDBs = map[string]*bbolt.DB{}
)

func newBoltByteStore(_ context.Context, raw json.RawMessage) (bytestore.ByteStore, error) {
	var cfg boltStoreConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse bolt store config: %w", err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("bolt byte store requires a path")
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}

	db, err := sharedBoltDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	return bolt.NewStore(db, cfg.Name)
}

func sharedBoltDB(path string) (*bbolt.DB, error) {
	path = filepath.Clean(path)

	boltMu.Lock()
	defer boltMu.Unlock()

	if db, ok := boltDBs[path]; ok {
		return db, nil
	}

	db, err := bolt.Open(path)
	if err != nil {
		return nil, err
	}

	boltDBs[path] = db
	return db, nil
}
