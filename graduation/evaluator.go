// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
)

// Criteria holds the tunable floors used to decide graduation.
type Criteria struct {
	// Blocks that must pass after launch before emergency graduation.
	EmergencyBlocks      uint64 `json:"emergencyBlocks"      yaml:"emergencyBlocks"`
	EmergencyMinSupply   uint64 `json:"emergencyMinSupply"   yaml:"emergencyMinSupply"`
	EmergencyMinReserves uint64 `json:"emergencyMinReserves" yaml:"emergencyMinReserves"`

	// Percent of supply minted into the pool on graduation.
	PoolTokenPct uint64 `json:"poolTokenPct" yaml:"poolTokenPct"`

	MinPoolTokens uint64 `json:"minPoolTokens" yaml:"minPoolTokens"`
	MinPoolBase   uint64 `json:"minPoolBase"   yaml:"minPoolBase"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		EmergencyBlocks:      4_320, // 30 days of 10 minute blocks
		EmergencyMinSupply:   1_000_000,
		EmergencyMinReserves: 100_000_000,
		PoolTokenPct:         20,
		MinPoolTokens:        1_000_000,
		MinPoolBase:          1_000_000_000,
	}
}

func (c Criteria) Verify() error {
	if c.PoolTokenPct == 0 || c.PoolTokenPct > 100 {
		return fmt.Errorf("%w: pool token pct %d not in (0, 100]", ErrInvalidCriteria, c.PoolTokenPct)
	}
	return nil
}

type Kind uint8

const (
	None Kind = iota
	Organic
	Emergency
)

func (k Kind) String() string {
	switch k {
	case Organic:
		return "organic"
	case Emergency:
		return "emergency"
	default:
		return "none"
	}
}

type Decision struct {
	Kind      Kind
	MarketCap *uint256.Int
}

func (d Decision) Eligible() bool {
	return d.Kind != None
}

// Split is the liquidity seeded into the pool on graduation.
type Split struct {
	Tokens *uint256.Int
	Base   *uint256.Int
}

// Evaluator decides whether a curve may graduate.
type Evaluator struct {
	pricer   *curve.Pricer
	criteria Criteria
}

func NewEvaluator(pricer *curve.Pricer, criteria Criteria) *Evaluator {
	return &Evaluator{
		pricer:   pricer,
		criteria: criteria,
	}
}

func (e *Evaluator) Criteria() Criteria {
	return e.criteria
}

func (e *Evaluator) Pricer() *curve.Pricer {
	return e.pricer
}

// MeetsOrganic is true when the market cap reaches the threshold, when
// reserves reach half the threshold, or when reserves back at least 30% of
// the market cap and at least 5% of max supply has been minted.
func (e *Evaluator) MeetsOrganic(supply, reserves *uint256.Int) (bool, error) {
	params := e.pricer.Params()
	marketCap, err := e.pricer.MarketCap(supply)
	if err != nil {
		return false, err
	}
	if !marketCap.Lt(params.GraduationThreshold) {
		return true, nil
	}
	halfThreshold := new(uint256.Int).Rsh(params.GraduationThreshold, 1)
	if !reserves.Lt(halfThreshold) {
		return true, nil
	}

	// Both sides are below 2^128 so the scaled values fit in 256 bits.
	scaledReserves := new(uint256.Int).Mul(reserves, uint256.NewInt(100))
	scaledCap := new(uint256.Int).Mul(marketCap, uint256.NewInt(30))
	minSupply := new(uint256.Int).Div(params.MaxSupply, uint256.NewInt(20))
	return !scaledReserves.Lt(scaledCap) && !supply.Lt(minSupply), nil
}

// MeetsEmergency is true once a curve has been live for EmergencyBlocks with
// enough supply and reserves to seed a pool.
func (e *Evaluator) MeetsEmergency(launchBlock, currentBlock uint64, supply, reserves *uint256.Int) bool {
	var age uint64
	if currentBlock > launchBlock {
		age = currentBlock - launchBlock
	}
	return age >= e.criteria.EmergencyBlocks &&
		!supply.Lt(uint256.NewInt(e.criteria.EmergencyMinSupply)) &&
		!reserves.Lt(uint256.NewInt(e.criteria.EmergencyMinReserves))
}

// Evaluate prefers organic graduation over emergency graduation.
func (e *Evaluator) Evaluate(launchBlock, currentBlock uint64, supply, reserves *uint256.Int) (Decision, error) {
	marketCap, err := e.pricer.MarketCap(supply)
	if err != nil {
		return Decision{}, err
	}
	organic, err := e.MeetsOrganic(supply, reserves)
	if err != nil {
		return Decision{}, err
	}
	switch {
	case organic:
		return Decision{Kind: Organic, MarketCap: marketCap}, nil
	case e.MeetsEmergency(launchBlock, currentBlock, supply, reserves):
		return Decision{Kind: Emergency, MarketCap: marketCap}, nil
	default:
		return Decision{Kind: None, MarketCap: marketCap}, nil
	}
}

// PoolSplit returns the token and base legs for a pool seeded at [supply].
// The token leg is minted so it never pushes supply past max supply, and the
// base leg never exceeds [reserves].
func (e *Evaluator) PoolSplit(supply, reserves *uint256.Int) (*Split, error) {
	params := e.pricer.Params()
	tokens, err := fixedpoint.MulDivUint64(supply, e.criteria.PoolTokenPct, 100)
	if err != nil {
		return nil, err
	}
	tokens = fixedpoint.Min(tokens, fixedpoint.SaturatingSub(params.MaxSupply, supply))

	price, err := e.pricer.PriceAt(supply)
	if err != nil {
		return nil, err
	}
	value, err := fixedpoint.MulDiv(tokens, price, uint256.NewInt(fixedpoint.Precision))
	switch {
	case errors.Is(err, fixedpoint.ErrArithmeticOverflow):
		value = reserves
	case err != nil:
		return nil, err
	}
	return &Split{
		Tokens: tokens.Clone(),
		Base:   fixedpoint.Min(value, reserves).Clone(),
	}, nil
}

// LiquiditySufficient reports whether the pool split clears the minimum
// token and base amounts.
func (e *Evaluator) LiquiditySufficient(supply, reserves *uint256.Int) (bool, error) {
	split, err := e.PoolSplit(supply, reserves)
	if err != nil {
		return false, err
	}
	return !split.Tokens.Lt(uint256.NewInt(e.criteria.MinPoolTokens)) &&
		!split.Base.Lt(uint256.NewInt(e.criteria.MinPoolBase)), nil
}
