// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
)

func curveKey(prefix byte, curveID ids.ID) []byte {
	k := make([]byte, consts.ByteLen+consts.IDLen)
	k[0] = prefix
	copy(k[consts.ByteLen:], curveID[:])
	return k
}

func newPacker(size int) *wrappers.Packer {
	return &wrappers.Packer{Bytes: make([]byte, 0, size), MaxSize: size}
}

func PackUint128(p *wrappers.Packer, v *uint256.Int) {
	if !fixedpoint.Fits(v) {
		p.Add(ErrValueTooWide)
		return
	}
	b := v.Bytes32()
	p.PackFixedBytes(b[32-consts.Uint128Len:])
}

func UnpackUint128(p *wrappers.Packer) *uint256.Int {
	return new(uint256.Int).SetBytes(p.UnpackFixedBytes(consts.Uint128Len))
}

func PackAssetID(p *wrappers.Packer, a curve.AssetID) {
	p.PackLong(a.Block)
	p.PackLong(a.Tx)
}

func UnpackAssetID(p *wrappers.Packer) curve.AssetID {
	return curve.AssetID{
		Block: p.UnpackLong(),
		Tx:    p.UnpackLong(),
	}
}

func encodeUint128(v *uint256.Int) ([]byte, error) {
	p := newPacker(consts.Uint128Len)
	PackUint128(p, v)
	return p.Bytes, p.Err
}

func decodeUint128(b []byte) (*uint256.Int, error) {
	if len(b) != consts.Uint128Len {
		return nil, ErrInvalidValue
	}
	p := &wrappers.Packer{Bytes: b}
	v := UnpackUint128(p)
	return v, p.Err
}

func encodeUint64(v uint64) []byte {
	p := newPacker(consts.Uint64Len)
	p.PackLong(v)
	return p.Bytes
}

func decodeUint64(b []byte) (uint64, error) {
	if len(b) != consts.Uint64Len {
		return 0, ErrInvalidValue
	}
	p := &wrappers.Packer{Bytes: b}
	v := p.UnpackLong()
	return v, p.Err
}
