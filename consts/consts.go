// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}

const (
	Name = "curvevm"

	IDLen      = 32
	ByteLen    = 1
	BoolLen    = 1
	Uint64Len  = 8
	Uint128Len = 16
	MaxUint64  = ^uint64(0)

	// AssetIDLen is the packed size of a (block, tx) asset identifier.
	AssetIDLen = 2 * Uint64Len
)
