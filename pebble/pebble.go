// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/fairlaunch/state"
)

var (
	_ state.Database = (*Database)(nil)
	_ database.Batch = (*batch)(nil)
)

type Config struct {
	CacheSize    int64 `json:"cacheSize"`
	BytesPerSync int   `json:"bytesPerSync"`
	MaxOpenFiles int   `json:"maxOpenFiles"`
	Sync         bool  `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:    64 * 1024 * 1024,
		BytesPerSync: 1024 * 1024,
		MaxOpenFiles: 4_096,
		Sync:         true,
	}
}

// Database is a pebble-backed [state.Database]. Shards only need point
// reads and atomic batches, so iteration is not exposed.
type Database struct {
	db      *pebble.DB
	cache   *pebble.Cache
	metrics *metrics
	sync    bool

	closing chan struct{}
	closed  sync.WaitGroup
	once    sync.Once
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	metrics, err := newMetrics(registry)
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		cache:   pebble.NewCache(cfg.CacheSize),
		metrics: metrics,
		sync:    cfg.Sync,
		closing: make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:         d.cache,
		BytesPerSync:  cfg.BytesPerSync,
		MaxOpenFiles:  cfg.MaxOpenFiles,
		EventListener: metrics.listener(),
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		d.cache.Unref()
		return nil, nil, err
	}
	d.db = db
	d.closed.Add(1)
	go func() {
		defer d.closed.Done()
		metrics.collect(db, d.closing)
	}()
	return d, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	defer db.metrics.observeRead(time.Now())

	data, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) Close() error {
	var err error
	db.once.Do(func() {
		close(db.closing)
		db.closed.Wait()
		err = db.db.Close()
		db.cache.Unref()
	})
	return err
}

type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	start := time.Now()
	pb := b.db.db.NewBatch()
	defer pb.Close()

	for _, op := range b.Ops {
		var err error
		if op.Delete {
			err = pb.Delete(op.Key, nil)
		} else {
			err = pb.Set(op.Key, op.Value, nil)
		}
		if err != nil {
			return err
		}
	}
	opts := pebble.NoSync
	if b.db.sync {
		opts = pebble.Sync
	}
	if err := pb.Commit(opts); err != nil {
		return err
	}
	b.db.metrics.observeCommit(start, b)
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
