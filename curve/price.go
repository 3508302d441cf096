// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/fixedpoint"
)

var (
	basisPoints = uint256.NewInt(fixedpoint.BasisPoints)
	precision   = uint256.NewInt(fixedpoint.Precision)
)

// PriceAt returns the unit price at [supply]:
//
//	base_price * ((10_000 + growth_bps) / 10_000)^supply
//
// clamped to [fixedpoint.MaxPrice].
func PriceAt(params *Params, supply *uint256.Int) (*uint256.Int, error) {
	if supply.IsZero() {
		return params.BasePrice.Clone(), nil
	}
	growth := uint256.NewInt(fixedpoint.BasisPoints + params.GrowthRateBps)
	multiplier, err := fixedpoint.PowFixed(growth, supply, basisPoints)
	if err != nil {
		return nil, err
	}
	// base_price < 2^128 and multiplier <= MaxPrice, so the product cannot
	// exceed 256 bits. Only the final clamp matters.
	price := new(uint256.Int).Mul(params.BasePrice, multiplier)
	price.Div(price, precision)
	return fixedpoint.Clamp(price), nil
}

// PriceCeiling returns the highest price [PriceAt] can return for [params],
// reached once the growth multiplier saturates at [fixedpoint.MaxPrice].
func PriceCeiling(params *Params) *uint256.Int {
	price := new(uint256.Int).Mul(params.BasePrice, fixedpoint.MaxPrice())
	price.Div(price, precision)
	return fixedpoint.Clamp(price)
}

// MarketCap returns supply * price / Precision, saturating at 2^128 - 1.
func MarketCap(supply, price *uint256.Int) *uint256.Int {
	capValue, err := fixedpoint.MulDiv(supply, price, precision)
	if err != nil {
		return fixedpoint.MaxUint128()
	}
	return capValue
}
