// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/storage"
	"github.com/ava-labs/curvevm/tstate"
)

func TestDatabase(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db, registry, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)
	require.NotNil(registry)

	_, err = db.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Insert(ctx, []byte("k"), []byte("v")))
	v, err := db.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	require.NoError(db.Remove(ctx, []byte("k")))
	_, err = db.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(db.Close())
}

func TestMetrics(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db, registry, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)

	require.NoError(db.Insert(ctx, []byte("a"), []byte("1")))
	view := tstate.New(db)
	require.NoError(view.Insert(ctx, []byte("b"), []byte("2")))
	require.NoError(view.Insert(ctx, []byte("c"), []byte("3")))
	require.NoError(view.Remove(ctx, []byte("a")))
	require.NoError(view.Commit(ctx))
	require.NoError(db.Close())

	families, err := registry.Gather()
	require.NoError(err)
	writes := map[string]float64{}
	var commits float64
	for _, family := range families {
		switch family.GetName() {
		case "curve_db_writes":
			for _, m := range family.GetMetric() {
				writes[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
			}
		case "curve_db_commits":
			commits = family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Equal(map[string]float64{opInsert: 3, opRemove: 1}, writes)
	require.Equal(float64(1), commits)
}

func TestPersistence(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	dir := t.TempDir()
	curveID := ids.GenerateTestID()

	db, _, err := New(dir, NewDefaultConfig())
	require.NoError(err)
	view := tstate.New(db)
	require.NoError(storage.SetSupply(ctx, view, curveID, uint256.NewInt(12)))
	require.NoError(storage.SetReserves(ctx, view, curveID, uint256.NewInt(34)))
	require.NoError(view.Commit(ctx))
	require.NoError(db.Close())

	db, _, err = New(dir, NewDefaultConfig())
	require.NoError(err)
	supply, err := storage.GetSupply(ctx, db, curveID)
	require.NoError(err)
	require.Equal(uint256.NewInt(12), supply)
	reserves, err := storage.GetReserves(ctx, db, curveID)
	require.NoError(err)
	require.Equal(uint256.NewInt(34), reserves)
	require.NoError(db.Close())
}

const batchSize = 10_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func BenchmarkCommit(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()
			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				view := tstate.New(db)
				for j := 0; j < batchSize; j++ {
					if err := view.Insert(ctx, keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := view.Commit(ctx); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
