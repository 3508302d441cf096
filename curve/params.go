// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/fixedpoint"
)

const MaxGrowthRateBps = fixedpoint.BasisPoints

// Params are fixed when a curve is initialized.
type Params struct {
	BasePrice           *uint256.Int
	GrowthRateBps       uint64
	GraduationThreshold *uint256.Int
	BaseCurrency        BaseCurrency
	MaxSupply           *uint256.Int
}

func (p *Params) Verify() error {
	switch {
	case p.BasePrice == nil || p.BasePrice.IsZero():
		return fmt.Errorf("%w: base price must be positive", ErrInvalidParams)
	case p.GrowthRateBps > MaxGrowthRateBps:
		return fmt.Errorf("%w: growth rate %d exceeds %d bps", ErrInvalidParams, p.GrowthRateBps, MaxGrowthRateBps)
	case p.GraduationThreshold == nil:
		return fmt.Errorf("%w: missing graduation threshold", ErrInvalidParams)
	case p.MaxSupply == nil || p.MaxSupply.IsZero():
		return fmt.Errorf("%w: max supply must be positive", ErrInvalidParams)
	case !p.BaseCurrency.Valid():
		return fmt.Errorf("%w: %w", ErrInvalidParams, ErrUnknownBaseCurrency)
	}
	for _, v := range []*uint256.Int{p.BasePrice, p.GraduationThreshold, p.MaxSupply} {
		if !fixedpoint.Fits(v) {
			return fmt.Errorf("%w: %w", ErrInvalidParams, fixedpoint.ErrArithmeticOverflow)
		}
	}
	return nil
}
