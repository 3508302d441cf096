// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewMemory()

	_, err := db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Insert(ctx, []byte("a"), []byte("1")))
	v, err := db.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)

	require.NoError(db.ApplyChanges(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Nothing[[]byte](),
		"b": maybe.Some([]byte("2")),
	}))
	_, err = db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	v, err = db.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte("2"), v)

	require.NoError(db.Remove(ctx, []byte("b")))
	_, err = db.GetValue(ctx, []byte("b"))
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(db.Close())
}
