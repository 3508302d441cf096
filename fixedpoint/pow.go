// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import "github.com/holiman/uint256"

// PowFixed returns (base/denominator)^exponent scaled by [Precision] using
// square-and-multiply.
//
// The running result and the squared base are both kept at or below
// [MaxPrice]; once either would exceed it the result saturates at MaxPrice.
// Because both operands are bounded by MaxPrice (< 2^108) every product fits
// in 256 bits and squaring can never wrap.
func PowFixed(base, exponent, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDivisionByZero
	}
	if exponent.IsZero() {
		return uint256.NewInt(Precision), nil
	}
	basePower, err := MulDiv(base, precision, denominator)
	if err != nil {
		return nil, err
	}
	if basePower.Gt(maxPrice) {
		return MaxPrice(), nil
	}

	var (
		result = uint256.NewInt(Precision)
		exp    = exponent.Clone()
		one    = uint256.NewInt(1)
	)
	for !exp.IsZero() {
		if exp.Uint64()&1 == 1 {
			result.Mul(result, basePower)
			result.Div(result, precision)
		}
		if exp.Gt(one) {
			basePower.Mul(basePower, basePower)
			basePower.Div(basePower, precision)
		}
		exp.Rsh(exp, 1)

		if result.Gt(maxPrice) || basePower.Gt(maxPrice) {
			return MaxPrice(), nil
		}
	}
	return result, nil
}
