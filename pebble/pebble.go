// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/curvevm/state"
)

var (
	_ state.Mutable = (*Database)(nil)
	_ state.Batcher = (*Database)(nil)
)

type Config struct {
	CacheSize             int64  `json:"cacheSize"             yaml:"cacheSize"`
	BytesPerSync          int    `json:"bytesPerSync"          yaml:"bytesPerSync"`
	MemTableSize          uint64 `json:"memTableSize"          yaml:"memTableSize"`
	MaxOpenFiles          int    `json:"maxOpenFiles"          yaml:"maxOpenFiles"`
	ConcurrentCompactions int    `json:"concurrentCompactions" yaml:"concurrentCompactions"`
	Sync                  bool   `json:"sync"                  yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:             64 * units.MiB,
		BytesPerSync:          1 * units.MiB,
		MemTableSize:          16 * units.MiB,
		MaxOpenFiles:          4_096,
		ConcurrentCompactions: 1,
		Sync:                  true,
	}
}

// Database persists curve state in a pebble instance.
type Database struct {
	db        *pebble.DB
	metrics   *metrics
	writeOpts *pebble.WriteOptions

	closing chan struct{}
	wg      sync.WaitGroup
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// Pebble holds its own reference to the cache once opened.
	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()

	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics:   metrics,
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		closing:   make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:                    cache,
		BytesPerSync:             cfg.BytesPerSync,
		MemTableSize:             cfg.MemTableSize,
		MaxOpenFiles:             cfg.MaxOpenFiles,
		MaxConcurrentCompactions: func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	d.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sampleMetrics()
	}()
	return d, registry, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		d.metrics.read.Observe(float64(time.Since(start)))
	}()

	v, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return slices.Clone(v), nil
}

func (d *Database) Insert(_ context.Context, key []byte, value []byte) error {
	d.metrics.wrote(opInsert)
	return d.db.Set(key, value, d.writeOpts)
}

func (d *Database) Remove(_ context.Context, key []byte) error {
	d.metrics.wrote(opRemove)
	return d.db.Delete(key, d.writeOpts)
}

// ApplyChanges writes [changes] in a single batch, in key order.
func (d *Database) ApplyChanges(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	start := time.Now()
	batch := d.db.NewBatch()
	defer batch.Close()

	keys := maps.Keys(changes)
	slices.Sort(keys)
	for _, k := range keys {
		v := changes[k]
		var err error
		if v.IsNothing() {
			d.metrics.wrote(opRemove)
			err = batch.Delete([]byte(k), nil)
		} else {
			d.metrics.wrote(opInsert)
			err = batch.Set([]byte(k), v.Value(), nil)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Commit(d.writeOpts); err != nil {
		return err
	}
	d.metrics.commits.Inc()
	d.metrics.commit.Observe(float64(time.Since(start)))
	return nil
}

func (d *Database) Close() error {
	close(d.closing)
	d.wg.Wait()
	return d.db.Close()
}
