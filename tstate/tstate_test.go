// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/state"
)

var (
	key1 = []byte("key1")
	key2 = []byte("key2")
	val1 = []byte("value1")
	val2 = []byte("value2")
)

// TestDB is a plain [state.Mutable] without batch support.
type TestDB struct {
	storage map[string][]byte
	inserts int
}

func NewTestDB() *TestDB {
	return &TestDB{
		storage: make(map[string][]byte),
	}
}

func (db *TestDB) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	val, ok := db.storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func (db *TestDB) Insert(_ context.Context, key []byte, value []byte) error {
	db.inserts++
	db.storage[string(key)] = value
	return nil
}

func (db *TestDB) Remove(_ context.Context, key []byte) error {
	delete(db.storage, string(key))
	return nil
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, key1, val1))

	tsv := New(db)
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(val1, val)

	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertNotVisibleUntilCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()

	tsv := New(db)
	require.NoError(tsv.Insert(ctx, key1, val1))
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(val1, val)

	_, err = db.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(tsv.Commit(ctx))
	val, err = db.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(val1, val)
	require.Zero(tsv.PendingChanges())
	require.Zero(tsv.OpIndex())
}

func TestRemove(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, key1, val1))

	tsv := New(db)
	// Removing a missing key is not recorded.
	require.NoError(tsv.Remove(ctx, key2))
	require.Zero(tsv.OpIndex())

	require.NoError(tsv.Remove(ctx, key1))
	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Equal(1, tsv.OpIndex())

	require.NoError(tsv.Commit(ctx))
	_, err = db.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, key1, val1))

	tsv := New(db)
	require.NoError(tsv.Insert(ctx, key2, val2))
	restore := tsv.OpIndex()

	require.NoError(tsv.Insert(ctx, key1, val2))
	require.NoError(tsv.Insert(ctx, key2, val1))
	require.NoError(tsv.Remove(ctx, key1))
	require.Equal(4, tsv.OpIndex())

	tsv.Rollback(ctx, restore)
	require.Equal(restore, tsv.OpIndex())
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(val1, val)
	val, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(val2, val)

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.PendingChanges())
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	// Nothing staged means nothing is written.
	require.NoError(tsv.Commit(ctx))
	require.Equal(1, db.inserts)
}

func TestCommitBatch(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := state.NewMemory()
	require.NoError(db.Insert(ctx, key1, val1))

	tsv := New(db)
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key2, val2))
	require.NoError(tsv.Commit(ctx))

	_, err := db.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	val, err := db.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(val2, val)
}
