// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var (
	_ Mutable = (*Database)(nil)
	_ Batcher = (*Database)(nil)
)

// Database adapts an avalanchego [database.Database] to [Mutable].
type Database struct {
	db database.Database
}

func NewDatabase(db database.Database) *Database {
	return &Database{db: db}
}

// NewMemory returns an in-memory [Database].
func NewMemory() *Database {
	return NewDatabase(memdb.New())
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.db.Get(key)
}

func (d *Database) Insert(_ context.Context, key []byte, value []byte) error {
	return d.db.Put(key, value)
}

func (d *Database) Remove(_ context.Context, key []byte) error {
	return d.db.Delete(key)
}

func (d *Database) ApplyChanges(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := d.db.NewBatch()
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (d *Database) Close() error {
	return d.db.Close()
}
