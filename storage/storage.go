// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/state"
)

const paramsLen = consts.Uint128Len + consts.Uint64Len + consts.Uint128Len + consts.ByteLen + consts.Uint128Len

// [paramsPrefix] + [curveID]
func ParamsKey(curveID ids.ID) []byte {
	return curveKey(paramsPrefix, curveID)
}

func SetParams(ctx context.Context, mu state.Mutable, curveID ids.ID, params *curve.Params) error {
	p := newPacker(paramsLen)
	PackUint128(p, params.BasePrice)
	p.PackLong(params.GrowthRateBps)
	PackUint128(p, params.GraduationThreshold)
	p.PackByte(byte(params.BaseCurrency))
	PackUint128(p, params.MaxSupply)
	if p.Err != nil {
		return p.Err
	}
	return mu.Insert(ctx, ParamsKey(curveID), p.Bytes)
}

// GetParams returns [database.ErrNotFound] if the curve was never initialized.
func GetParams(ctx context.Context, im state.Immutable, curveID ids.ID) (*curve.Params, error) {
	v, err := im.GetValue(ctx, ParamsKey(curveID))
	if err != nil {
		return nil, err
	}
	if len(v) != paramsLen {
		return nil, ErrInvalidValue
	}
	p := &wrappers.Packer{Bytes: v}
	params := &curve.Params{
		BasePrice:           UnpackUint128(p),
		GrowthRateBps:       p.UnpackLong(),
		GraduationThreshold: UnpackUint128(p),
		BaseCurrency:        curve.BaseCurrency(p.UnpackByte()),
		MaxSupply:           UnpackUint128(p),
	}
	return params, p.Err
}

// [tokenPrefix] + [curveID]
func TokenKey(curveID ids.ID) []byte {
	return curveKey(tokenPrefix, curveID)
}

func SetToken(ctx context.Context, mu state.Mutable, curveID ids.ID, token curve.AssetID) error {
	p := newPacker(consts.AssetIDLen)
	PackAssetID(p, token)
	return mu.Insert(ctx, TokenKey(curveID), p.Bytes)
}

func GetToken(ctx context.Context, im state.Immutable, curveID ids.ID) (curve.AssetID, error) {
	return getAssetID(ctx, im, TokenKey(curveID))
}

// [supplyPrefix] + [curveID]
func SupplyKey(curveID ids.ID) []byte {
	return curveKey(supplyPrefix, curveID)
}

func GetSupply(ctx context.Context, im state.Immutable, curveID ids.ID) (*uint256.Int, error) {
	return getUint128(ctx, im, SupplyKey(curveID))
}

func SetSupply(ctx context.Context, mu state.Mutable, curveID ids.ID, supply *uint256.Int) error {
	return setUint128(ctx, mu, SupplyKey(curveID), supply)
}

// [reservesPrefix] + [curveID]
func ReservesKey(curveID ids.ID) []byte {
	return curveKey(reservesPrefix, curveID)
}

func GetReserves(ctx context.Context, im state.Immutable, curveID ids.ID) (*uint256.Int, error) {
	return getUint128(ctx, im, ReservesKey(curveID))
}

func SetReserves(ctx context.Context, mu state.Mutable, curveID ids.ID, reserves *uint256.Int) error {
	return setUint128(ctx, mu, ReservesKey(curveID), reserves)
}

// [graduatedPrefix] + [curveID]
func GraduatedKey(curveID ids.ID) []byte {
	return curveKey(graduatedPrefix, curveID)
}

func IsGraduated(ctx context.Context, im state.Immutable, curveID ids.ID) (bool, error) {
	v, err := im.GetValue(ctx, GraduatedKey(curveID))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(v) != consts.BoolLen {
		return false, ErrInvalidValue
	}
	return v[0] == 1, nil
}

// SetGraduated marks the curve as graduated. There is no way to clear it.
func SetGraduated(ctx context.Context, mu state.Mutable, curveID ids.ID) error {
	return mu.Insert(ctx, GraduatedKey(curveID), []byte{1})
}

// [poolPrefix] + [curveID]
func PoolKey(curveID ids.ID) []byte {
	return curveKey(poolPrefix, curveID)
}

func SetPool(ctx context.Context, mu state.Mutable, curveID ids.ID, pool curve.AssetID) error {
	p := newPacker(consts.AssetIDLen)
	PackAssetID(p, pool)
	return mu.Insert(ctx, PoolKey(curveID), p.Bytes)
}

// GetPool returns [curve.EmptyAssetID] before graduation.
func GetPool(ctx context.Context, im state.Immutable, curveID ids.ID) (curve.AssetID, error) {
	pool, err := getAssetID(ctx, im, PoolKey(curveID))
	if errors.Is(err, database.ErrNotFound) {
		return curve.EmptyAssetID, nil
	}
	return pool, err
}

// [lpBalancePrefix] + [curveID]
func LPBalanceKey(curveID ids.ID) []byte {
	return curveKey(lpBalancePrefix, curveID)
}

func GetLPBalance(ctx context.Context, im state.Immutable, curveID ids.ID) (*uint256.Int, error) {
	return getUint128(ctx, im, LPBalanceKey(curveID))
}

func SetLPBalance(ctx context.Context, mu state.Mutable, curveID ids.ID, balance *uint256.Int) error {
	return setUint128(ctx, mu, LPBalanceKey(curveID), balance)
}

// [launchBlockPrefix] + [curveID]
func LaunchBlockKey(curveID ids.ID) []byte {
	return curveKey(launchBlockPrefix, curveID)
}

func GetLaunchBlock(ctx context.Context, im state.Immutable, curveID ids.ID) (uint64, error) {
	return getUint64(ctx, im, LaunchBlockKey(curveID))
}

func SetLaunchBlock(ctx context.Context, mu state.Mutable, curveID ids.ID, height uint64) error {
	return mu.Insert(ctx, LaunchBlockKey(curveID), encodeUint64(height))
}

// [graduationBlockPrefix] + [curveID]
func GraduationBlockKey(curveID ids.ID) []byte {
	return curveKey(graduationBlockPrefix, curveID)
}

func GetGraduationBlock(ctx context.Context, im state.Immutable, curveID ids.ID) (uint64, error) {
	return getUint64(ctx, im, GraduationBlockKey(curveID))
}

func SetGraduationBlock(ctx context.Context, mu state.Mutable, curveID ids.ID, height uint64) error {
	return mu.Insert(ctx, GraduationBlockKey(curveID), encodeUint64(height))
}

// [strategyPrefix] + [curveID]
func StrategyKey(curveID ids.ID) []byte {
	return curveKey(strategyPrefix, curveID)
}

func GetStrategy(ctx context.Context, im state.Immutable, curveID ids.ID) (uint8, error) {
	v, err := im.GetValue(ctx, StrategyKey(curveID))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.ByteLen {
		return 0, ErrInvalidValue
	}
	return v[0], nil
}

func SetStrategy(ctx context.Context, mu state.Mutable, curveID ids.ID, strategy uint8) error {
	return mu.Insert(ctx, StrategyKey(curveID), []byte{strategy})
}

// [lpAllocationPrefix] + [curveID] + [destination]
func LPAllocationKey(curveID ids.ID, destination uint8) []byte {
	k := make([]byte, consts.ByteLen+consts.IDLen+consts.ByteLen)
	k[0] = lpAllocationPrefix
	copy(k[consts.ByteLen:], curveID[:])
	k[consts.ByteLen+consts.IDLen] = destination
	return k
}

func GetLPAllocation(ctx context.Context, im state.Immutable, curveID ids.ID, destination uint8) (*uint256.Int, error) {
	return getUint128(ctx, im, LPAllocationKey(curveID, destination))
}

func AddLPAllocation(ctx context.Context, mu state.Mutable, curveID ids.ID, destination uint8, amount *uint256.Int) error {
	k := LPAllocationKey(curveID, destination)
	current, err := getUint128(ctx, mu, k)
	if err != nil {
		return err
	}
	total, overflow := new(uint256.Int).AddOverflow(current, amount)
	if overflow {
		return ErrValueTooWide
	}
	return setUint128(ctx, mu, k, total)
}

// getUint128 treats a missing key as zero.
func getUint128(ctx context.Context, im state.Immutable, k []byte) (*uint256.Int, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeUint128(v)
}

func setUint128(ctx context.Context, mu state.Mutable, k []byte, v *uint256.Int) error {
	b, err := encodeUint128(v)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, k, b)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeUint64(v)
}

func getAssetID(ctx context.Context, im state.Immutable, k []byte) (curve.AssetID, error) {
	v, err := im.GetValue(ctx, k)
	if err != nil {
		return curve.EmptyAssetID, err
	}
	if len(v) != consts.AssetIDLen {
		return curve.EmptyAssetID, ErrInvalidValue
	}
	p := &wrappers.Packer{Bytes: v}
	a := UnpackAssetID(p)
	return a, p.Err
}
