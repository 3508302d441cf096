// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/storage"
	"github.com/ava-labs/curvevm/tstate"
)

// Result describes a completed graduation.
type Result struct {
	Kind        Kind
	Pool        curve.AssetID
	LPTokens    *uint256.Int
	PoolTokens  *uint256.Int
	PoolBase    *uint256.Int
	Allocations []Allocation
}

// Graduator moves a curve's liquidity into an AMM pool.
type Graduator struct {
	log       logging.Logger
	tracer    trace.Tracer
	evaluator *Evaluator
	factory   curve.AssetID
}

func New(log logging.Logger, tracer trace.Tracer, evaluator *Evaluator, factory curve.AssetID) *Graduator {
	return &Graduator{
		log:       log,
		tracer:    tracer,
		evaluator: evaluator,
		factory:   factory,
	}
}

// Execute graduates [curveID] at [currentBlock].
//
// Every write made by Execute, by [amm], and by [distributor] must go through
// [view]. On error the view is rolled back to where it was when Execute was
// called, so the caller can discard it or keep using it.
func (g *Graduator) Execute(
	ctx context.Context,
	view *tstate.View,
	amm AMM,
	distributor Distributor,
	curveID ids.ID,
	currentBlock uint64,
) (*Result, error) {
	ctx, span := g.tracer.Start(ctx, "Graduator.Execute")
	defer span.End()

	restorePoint := view.OpIndex()
	result, err := g.execute(ctx, view, amm, distributor, curveID, currentBlock)
	if err != nil {
		view.Rollback(ctx, restorePoint)
		g.log.Debug("graduation failed",
			zap.Stringer("curveID", curveID),
			zap.Uint64("block", currentBlock),
			zap.Error(err),
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("kind", result.Kind.String()),
		attribute.String("pool", result.Pool.String()),
	)
	g.log.Info("curve graduated",
		zap.Stringer("curveID", curveID),
		zap.Stringer("kind", result.Kind),
		zap.Stringer("pool", result.Pool),
		zap.String("lpTokens", result.LPTokens.Dec()),
		zap.Uint64("block", currentBlock),
	)
	return result, nil
}

func (g *Graduator) execute(
	ctx context.Context,
	view *tstate.View,
	amm AMM,
	distributor Distributor,
	curveID ids.ID,
	currentBlock uint64,
) (*Result, error) {
	s, err := storage.GetCurveState(ctx, view, curveID)
	if err != nil {
		return nil, err
	}
	if s.Graduated {
		return nil, ErrAlreadyGraduated
	}
	decision, err := g.evaluator.Evaluate(s.LaunchBlock, currentBlock, s.Supply, s.Reserves)
	if err != nil {
		return nil, err
	}
	if !decision.Eligible() {
		return nil, fmt.Errorf("%w: market cap %s", ErrGraduationCriteriaNotMet, decision.MarketCap.Dec())
	}
	split, err := g.evaluator.PoolSplit(s.Supply, s.Reserves)
	if err != nil {
		return nil, err
	}

	base := g.evaluator.Pricer().Params().BaseCurrency.AssetID()
	pool, err := amm.CreatePool(ctx, g.factory, s.Token, base)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", ErrPoolVerificationFailed, err)
	}
	token0, token1, err := amm.GetPair(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: get pair: %w", ErrPoolVerificationFailed, err)
	}
	var deposit *Deposit
	switch {
	case token0 == s.Token && token1 == base:
		deposit = &Deposit{Token0: token0, Amount0: split.Tokens, Token1: token1, Amount1: split.Base}
	case token0 == base && token1 == s.Token:
		deposit = &Deposit{Token0: token0, Amount0: split.Base, Token1: token1, Amount1: split.Tokens}
	default:
		return nil, fmt.Errorf("%w: pool %s trades %s/%s", ErrPoolVerificationFailed, pool, token0, token1)
	}
	initialized, err := amm.IsInitialized(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolVerificationFailed, err)
	}
	if !initialized {
		return nil, fmt.Errorf("%w: pool %s not initialized", ErrPoolVerificationFailed, pool)
	}

	lp, remainder, err := amm.AddLiquidity(ctx, pool, deposit)
	if err != nil {
		return nil, err
	}
	if lp == nil || lp.IsZero() {
		return nil, ErrNoLiquidityTokens
	}
	poolTokens, err := fixedpoint.Sub(split.Tokens, remainder.Amount(s.Token))
	if err != nil {
		return nil, err
	}
	poolBase, err := fixedpoint.Sub(split.Base, remainder.Amount(base))
	if err != nil {
		return nil, err
	}
	reserves, err := fixedpoint.Sub(s.Reserves, poolBase)
	if err != nil {
		return nil, err
	}
	supply, err := fixedpoint.Add(s.Supply, poolTokens)
	if err != nil {
		return nil, err
	}

	if err := storage.SetGraduated(ctx, view, curveID); err != nil {
		return nil, err
	}
	if err := storage.SetPool(ctx, view, curveID, pool); err != nil {
		return nil, err
	}
	if err := storage.SetLPBalance(ctx, view, curveID, lp); err != nil {
		return nil, err
	}
	if err := storage.SetGraduationBlock(ctx, view, curveID, currentBlock); err != nil {
		return nil, err
	}
	if err := storage.SetReserves(ctx, view, curveID, reserves); err != nil {
		return nil, err
	}
	if err := storage.SetSupply(ctx, view, curveID, supply); err != nil {
		return nil, err
	}
	allocations, err := Distribute(ctx, distributor, Strategy(s.Strategy), lp)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:        decision.Kind,
		Pool:        pool,
		LPTokens:    lp.Clone(),
		PoolTokens:  poolTokens,
		PoolBase:    poolBase,
		Allocations: allocations,
	}, nil
}
