// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/curvevm/state"
)

const defaultOps = 8

var _ state.Mutable = (*View)(nil)

// View stages writes on top of a [state.Mutable] so that a multi-step
// operation either lands completely (Commit) or not at all.
type View struct {
	base               state.Mutable
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// ops is a record of every write performed on the view. Tracking
	// operations allows for reverting to a certain point-in-time.
	ops []*op
}

type op struct {
	k string

	pastChanged bool
	pastV       maybe.Maybe[[]byte]
}

func New(base state.Mutable) *View {
	return &View{
		base:               base,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
		ops:                make([]*op, 0, defaultOps),
	}
}

// Rollback restores the view to the state it had after ops[:restorePoint].
func (v *View) Rollback(_ context.Context, restorePoint int) {
	for i := len(v.ops) - 1; i >= restorePoint; i-- {
		op := v.ops[i]
		if !op.pastChanged {
			delete(v.pendingChangedKeys, op.k)
			continue
		}
		v.pendingChangedKeys[op.k] = op.pastV
	}
	v.ops = v.ops[:restorePoint]
}

// OpIndex returns the number of operations done on the view.
func (v *View) OpIndex() int {
	return len(v.ops)
}

func (v *View) PendingChanges() int {
	return len(v.pendingChangedKeys)
}

// GetValue returns the staged value for [key], falling through to the base
// state when the key has not been touched.
func (v *View) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	value, _, exists, err := v.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return value, nil
}

func (v *View) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if pv, ok := v.pendingChangedKeys[key]; ok {
		if pv.IsNothing() {
			return nil, true, false, nil
		}
		return pv.Value(), true, true, nil
	}
	value, err := v.base.GetValue(ctx, []byte(key))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, false, false, nil
	case err != nil:
		return nil, false, false, err
	default:
		return value, false, true, nil
	}
}

// Insert stages [value] for [key].
//
// Any bytes passed into Insert are consumed by the view and should not be
// modified after this call.
func (v *View) Insert(_ context.Context, key []byte, value []byte) error {
	k := string(key)
	v.record(k)
	v.pendingChangedKeys[k] = maybe.Some(value)
	return nil
}

// Remove stages the deletion of [key]. Removing a missing key is a no-op.
func (v *View) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	_, _, exists, err := v.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	v.record(k)
	v.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

func (v *View) record(k string) {
	past, changed := v.pendingChangedKeys[k]
	v.ops = append(v.ops, &op{
		k:           k,
		pastChanged: changed,
		pastV:       past,
	})
}

// Commit writes all staged changes to the base state and resets the view.
// Backends implementing [state.Batcher] receive the changes as one batch.
func (v *View) Commit(ctx context.Context) error {
	if len(v.pendingChangedKeys) == 0 {
		return nil
	}
	if b, ok := v.base.(state.Batcher); ok {
		if err := b.ApplyChanges(ctx, v.pendingChangedKeys); err != nil {
			return err
		}
		v.reset()
		return nil
	}

	keys := maps.Keys(v.pendingChangedKeys)
	slices.Sort(keys)
	for _, k := range keys {
		pv := v.pendingChangedKeys[k]
		var err error
		if pv.IsNothing() {
			err = v.base.Remove(ctx, []byte(k))
		} else {
			err = v.base.Insert(ctx, []byte(k), pv.Value())
		}
		if err != nil {
			return err
		}
	}
	v.reset()
	return nil
}

func (v *View) reset() {
	v.pendingChangedKeys = make(map[string]maybe.Maybe[[]byte])
	v.ops = v.ops[:0]
}
