// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import "github.com/holiman/uint256"

const (
	// Precision is the fixed-point representation of 1.0.
	Precision uint64 = 1_000_000_000
	// BasisPoints is the representation of 100%.
	BasisPoints uint64 = 10_000

	priceCeilingDivisor uint64 = 1_000_000
	maxBits                    = 128
)

var (
	precision  = uint256.NewInt(Precision)
	maxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), maxBits), uint256.NewInt(1))
	maxPrice   = new(uint256.Int).Div(maxUint128, uint256.NewInt(priceCeilingDivisor))
)

// MaxUint128 returns 2^128 - 1.
func MaxUint128() *uint256.Int {
	return maxUint128.Clone()
}

// MaxPrice returns the saturation ceiling applied to every computed price
// (MaxUint128 / 10^6).
func MaxPrice() *uint256.Int {
	return maxPrice.Clone()
}
