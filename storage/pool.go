// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/state"
)

const poolLen = 2*consts.AssetIDLen + 3*consts.Uint128Len + consts.Uint64Len + consts.BoolLen

// Pool is the persisted record of a constant-product pool.
type Pool struct {
	Token0   curve.AssetID
	Token1   curve.AssetID
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
	LPSupply *uint256.Int
	Fee      uint64

	Initialized bool
}

// [ammPoolPrefix] + [pool]
func AMMPoolKey(pool curve.AssetID) []byte {
	p := newPacker(consts.ByteLen + consts.AssetIDLen)
	p.PackByte(ammPoolPrefix)
	PackAssetID(p, pool)
	return p.Bytes
}

func SetAMMPool(ctx context.Context, mu state.Mutable, id curve.AssetID, pool *Pool) error {
	p := newPacker(poolLen)
	PackAssetID(p, pool.Token0)
	PackAssetID(p, pool.Token1)
	PackUint128(p, pool.Reserve0)
	PackUint128(p, pool.Reserve1)
	PackUint128(p, pool.LPSupply)
	p.PackLong(pool.Fee)
	p.PackBool(pool.Initialized)
	if p.Err != nil {
		return p.Err
	}
	return mu.Insert(ctx, AMMPoolKey(id), p.Bytes)
}

// GetAMMPool returns [database.ErrNotFound] for unknown pools.
func GetAMMPool(ctx context.Context, im state.Immutable, id curve.AssetID) (*Pool, error) {
	v, err := im.GetValue(ctx, AMMPoolKey(id))
	if err != nil {
		return nil, err
	}
	if len(v) != poolLen {
		return nil, ErrInvalidValue
	}
	p := &wrappers.Packer{Bytes: v}
	pool := &Pool{
		Token0:      UnpackAssetID(p),
		Token1:      UnpackAssetID(p),
		Reserve0:    UnpackUint128(p),
		Reserve1:    UnpackUint128(p),
		LPSupply:    UnpackUint128(p),
		Fee:         p.UnpackLong(),
		Initialized: p.UnpackBool(),
	}
	return pool, p.Err
}

// [ammPoolCountPrefix] + [factory]
func AMMPoolCountKey(factory curve.AssetID) []byte {
	p := newPacker(consts.ByteLen + consts.AssetIDLen)
	p.PackByte(ammPoolCountPrefix)
	PackAssetID(p, factory)
	return p.Bytes
}

// IncrementAMMPoolCount returns the number of pools created by [factory]
// before this call and stores the incremented count.
func IncrementAMMPoolCount(ctx context.Context, mu state.Mutable, factory curve.AssetID) (uint64, error) {
	k := AMMPoolCountKey(factory)
	v, err := mu.GetValue(ctx, k)
	var count uint64
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return 0, err
	default:
		if count, err = decodeUint64(v); err != nil {
			return 0, err
		}
	}
	return count, mu.Insert(ctx, k, encodeUint64(count+1))
}
