// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Fits reports whether [x] can be represented in 128 bits.
func Fits(x *uint256.Int) bool {
	return x.BitLen() <= maxBits
}

func checked(x *uint256.Int) (*uint256.Int, error) {
	if !Fits(x) {
		return nil, fmt.Errorf("%w: %d bits", ErrArithmeticOverflow, x.BitLen())
	}
	return x, nil
}

// Add returns a + b or [ErrArithmeticOverflow] if the sum does not fit in
// 128 bits.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return checked(z)
}

// Sub returns a - b or [ErrUnderflow] if b > a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	if a.Lt(b) {
		return nil, ErrUnderflow
	}
	return new(uint256.Int).Sub(a, b), nil
}

// SaturatingSub returns a - b, or zero if b > a.
func SaturatingSub(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}

// Mul returns a * b or [ErrArithmeticOverflow] if the product does not fit in
// 128 bits.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return checked(z)
}

// MulDiv returns floor(a * b / d). The product is held in full precision so
// only the quotient must fit in 128 bits.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return checked(z)
}

// MulDivUint64 is MulDiv with a uint64 multiplier and divisor.
func MulDivUint64(a *uint256.Int, b, d uint64) (*uint256.Int, error) {
	return MulDiv(a, uint256.NewInt(b), uint256.NewInt(d))
}

// Min returns the smaller of a and b. The result aliases one of the inputs.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a
	}
	return b
}

// Clamp returns [x] or [MaxPrice] if x exceeds it.
func Clamp(x *uint256.Int) *uint256.Int {
	if x.Gt(maxPrice) {
		return MaxPrice()
	}
	return x
}

// Zero returns a fresh zero value.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// FromDecimal parses a base-10 string into a 128-bit value.
func FromDecimal(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, err
	}
	return checked(v)
}
