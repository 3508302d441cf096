// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/fixedpoint"
)

// IntegratorConfig controls when cost integration sums every unit price and
// when it falls back to the trapezoidal rule.
//
// A quantity is summed exactly when it is at most ExactQuantityThreshold, or
// when the range starts below LowSupplyThreshold. Every other range uses
//
//	(price(start) + price(end - 1)) / 2 * quantity
//
// which over-estimates a convex curve. For a per-unit growth factor r the
// relative error over q units is at most (r^(q-1) - 1)^2 / (4 r^(q-1)), which
// is about ((q-1) * growth_bps / 10_000)^2 / 4 while that product is small.
//
// Units priced at [PriceCeiling] are never approximated: the rule only covers
// the part of a range below the first saturated supply and the saturated tail
// is charged the ceiling per unit.
type IntegratorConfig struct {
	ExactQuantityThreshold uint64 `json:"exactQuantityThreshold" yaml:"exactQuantityThreshold"`
	LowSupplyThreshold     uint64 `json:"lowSupplyThreshold"     yaml:"lowSupplyThreshold"`
	SellDiscountPct        uint64 `json:"sellDiscountPct"        yaml:"sellDiscountPct"`
}

func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{
		ExactQuantityThreshold: 100,
		LowSupplyThreshold:     1_000,
		SellDiscountPct:        2,
	}
}

func (c IntegratorConfig) Verify() error {
	if c.SellDiscountPct > 100 {
		return fmt.Errorf("%w: sell discount %d%% exceeds 100%%", ErrInvalidParams, c.SellDiscountPct)
	}
	return nil
}

// Pricer prices trades against one curve. It is safe for concurrent use when
// the underlying cache is.
type Pricer struct {
	params *Params
	cfg    IntegratorConfig
	cache  *PriceCache
}

// NewPricer returns a Pricer for [params]. [cache] may be nil; when set it must
// only ever be used with the same params.
func NewPricer(params *Params, cfg IntegratorConfig, cache *PriceCache) *Pricer {
	return &Pricer{
		params: params,
		cfg:    cfg,
		cache:  cache,
	}
}

func (p *Pricer) Params() *Params {
	return p.params
}

func (p *Pricer) PriceAt(supply *uint256.Int) (*uint256.Int, error) {
	if p.cache == nil {
		return PriceAt(p.params, supply)
	}
	if price, ok := p.cache.Get(supply); ok {
		return price, nil
	}
	price, err := PriceAt(p.params, supply)
	if err != nil {
		return nil, err
	}
	p.cache.Put(supply, price)
	return price, nil
}

// MarketCap returns the market capitalization at [supply].
func (p *Pricer) MarketCap(supply *uint256.Int) (*uint256.Int, error) {
	price, err := p.PriceAt(supply)
	if err != nil {
		return nil, err
	}
	return MarketCap(supply, price), nil
}

// BuyCost returns the cost of minting [quantity] units starting at [supply].
func (p *Pricer) BuyCost(supply, quantity *uint256.Int) (*uint256.Int, error) {
	if quantity.IsZero() {
		return fixedpoint.Zero(), nil
	}
	end, err := fixedpoint.Add(supply, quantity)
	if err != nil {
		return nil, err
	}
	if end.Gt(p.params.MaxSupply) {
		return nil, fmt.Errorf("%w: %s + %s > %s", ErrSupplyCapExceeded, supply.Dec(), quantity.Dec(), p.params.MaxSupply.Dec())
	}
	return p.integrate(supply, quantity)
}

// SellReturn returns the discounted payout for burning [quantity] units from
// [supply]. The discount is applied to the integrated value.
func (p *Pricer) SellReturn(supply, quantity *uint256.Int) (*uint256.Int, error) {
	if quantity.IsZero() {
		return fixedpoint.Zero(), nil
	}
	if quantity.Gt(supply) {
		return nil, fmt.Errorf("%w: selling %s of %s", ErrInsufficientSupply, quantity.Dec(), supply.Dec())
	}
	start := new(uint256.Int).Sub(supply, quantity)
	theoretical, err := p.integrate(start, quantity)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDivUint64(theoretical, 100-p.cfg.SellDiscountPct, 100)
}

// TokensForBase returns the largest quantity purchasable from [supply] for at
// most [base], along with its exact cost.
func (p *Pricer) TokensForBase(supply, base *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	var (
		low      = fixedpoint.Zero()
		high     = fixedpoint.SaturatingSub(p.params.MaxSupply, supply)
		one      = uint256.NewInt(1)
		best     = fixedpoint.Zero()
		bestCost = fixedpoint.Zero()
	)
	for !low.Gt(high) {
		mid := new(uint256.Int).Add(low, high)
		mid.Rsh(mid, 1)
		cost, err := p.BuyCost(supply, mid)
		switch {
		case err == nil && !cost.Gt(base):
			best, bestCost = mid, cost
			low = new(uint256.Int).Add(mid, one)
			continue
		case err != nil && !isOverflow(err):
			return nil, nil, err
		}
		// The cost is above [base] (or too large to represent) so every larger
		// quantity is too.
		if mid.IsZero() {
			break
		}
		high = new(uint256.Int).Sub(mid, one)
	}
	if best.IsZero() {
		return nil, nil, fmt.Errorf("%w: %s", ErrInsufficientBase, base.Dec())
	}
	return best, bestCost, nil
}

func (p *Pricer) useExact(start, quantity *uint256.Int) bool {
	if quantity.IsUint64() && quantity.Uint64() <= p.cfg.ExactQuantityThreshold {
		return true
	}
	return start.IsUint64() && start.Uint64() < p.cfg.LowSupplyThreshold
}

// integrate returns the cost of [quantity] units starting at [start].
// quantity must be non-zero.
func (p *Pricer) integrate(start, quantity *uint256.Int) (*uint256.Int, error) {
	last := new(uint256.Int).Add(start, quantity)
	last.Sub(last, uint256.NewInt(1))
	first, err := p.PriceAt(start)
	if err != nil {
		return nil, err
	}
	end, err := p.PriceAt(last)
	if err != nil {
		return nil, err
	}
	// Prices are non-decreasing, so every unit in between costs the same.
	if first.Eq(end) {
		return fixedpoint.Mul(first, quantity)
	}
	ceiling := PriceCeiling(p.params)
	if !end.Eq(ceiling) {
		return p.sum(start, quantity)
	}

	clamped, err := p.firstClamped(start, last, ceiling)
	if err != nil {
		return nil, err
	}
	saturated := new(uint256.Int).Add(start, quantity)
	saturated.Sub(saturated, clamped)
	tail, err := fixedpoint.Mul(ceiling, saturated)
	if err != nil {
		return nil, err
	}
	// first < ceiling so clamped > start.
	head, err := p.sum(start, new(uint256.Int).Sub(clamped, start))
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(head, tail)
}

// firstClamped returns the smallest supply in [low, high] priced at
// [ceiling]. PriceAt(high) must equal [ceiling] and prices never exceed it.
func (p *Pricer) firstClamped(low, high, ceiling *uint256.Int) (*uint256.Int, error) {
	var (
		lo  = low.Clone()
		hi  = high.Clone()
		one = uint256.NewInt(1)
	)
	for lo.Lt(hi) {
		mid := new(uint256.Int).Add(lo, hi)
		mid.Rsh(mid, 1)
		price, err := p.PriceAt(mid)
		if err != nil {
			return nil, err
		}
		if price.Eq(ceiling) {
			hi = mid
		} else {
			lo = new(uint256.Int).Add(mid, one)
		}
	}
	return lo, nil
}

// sum applies the exact or trapezoidal rule over [start, start+quantity).
func (p *Pricer) sum(start, quantity *uint256.Int) (*uint256.Int, error) {
	if p.useExact(start, quantity) {
		var (
			total  = fixedpoint.Zero()
			supply = start.Clone()
			one    = uint256.NewInt(1)
		)
		for i := uint64(0); i < quantity.Uint64(); i++ {
			price, err := p.PriceAt(supply)
			if err != nil {
				return nil, err
			}
			total, err = fixedpoint.Add(total, price)
			if err != nil {
				return nil, err
			}
			supply = new(uint256.Int).Add(supply, one)
		}
		return total, nil
	}

	startPrice, err := p.PriceAt(start)
	if err != nil {
		return nil, err
	}
	last := new(uint256.Int).Add(start, quantity)
	last.Sub(last, uint256.NewInt(1))
	endPrice, err := p.PriceAt(last)
	if err != nil {
		return nil, err
	}
	total, err := fixedpoint.Add(startPrice, endPrice)
	if err != nil {
		return nil, err
	}
	average := new(uint256.Int).Rsh(total, 1)
	return fixedpoint.Mul(average, quantity)
}

func isOverflow(err error) bool {
	return errors.Is(err, fixedpoint.ErrArithmeticOverflow)
}
