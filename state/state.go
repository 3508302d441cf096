// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Batcher is implemented by backends that can apply a set of changes
// atomically. A Nothing value deletes the key.
type Batcher interface {
	ApplyChanges(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
}
