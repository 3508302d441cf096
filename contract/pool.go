// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/storage"
	"github.com/ava-labs/curvevm/tstate"
)

// PoolState describes the pool a curve graduated into.
type PoolState struct {
	Pool         curve.AssetID
	Token        curve.AssetID
	Base         curve.AssetID
	TokenReserve *uint256.Int
	BaseReserve  *uint256.Int
	LPSupply     *uint256.Int
}

// PoolState returns the reserves of the curve's pool. It fails with
// [ErrNotGraduated] until the curve has graduated.
func (c *Curve) PoolState(ctx context.Context) (*PoolState, error) {
	c.l.Lock()
	defer c.l.Unlock()

	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	view := tstate.New(c.db)
	s, err := storage.GetCurveState(ctx, view, c.id)
	if err != nil {
		return nil, err
	}
	if !s.Graduated {
		return nil, ErrNotGraduated
	}
	exchange, err := c.opts.NewAMM(view)
	if err != nil {
		return nil, err
	}
	token0, _, err := exchange.GetPair(ctx, s.Pool)
	if err != nil {
		return nil, err
	}
	reserve0, reserve1, lpSupply, err := exchange.Reserves(ctx, s.Pool)
	if err != nil {
		return nil, err
	}
	p := &PoolState{
		Pool:     s.Pool,
		Token:    s.Token,
		Base:     pricer.Params().BaseCurrency.AssetID(),
		LPSupply: lpSupply,
	}
	if token0 == s.Token {
		p.TokenReserve, p.BaseReserve = reserve0, reserve1
	} else {
		p.TokenReserve, p.BaseReserve = reserve1, reserve0
	}
	return p, nil
}

// Swap trades [amountIn] of [tokenIn] against the graduated pool. [tokenIn]
// is either the curve's token or its base currency. It fails if less than
// [minAmountOut] of the other side would be paid out.
func (c *Curve) Swap(ctx context.Context, tokenIn curve.AssetID, amountIn, minAmountOut *uint256.Int) (*uint256.Int, error) {
	ctx, span := c.tracer.Start(ctx, "Curve.Swap")
	defer span.End()

	c.l.Lock()
	defer c.l.Unlock()

	out, err := c.swap(ctx, tokenIn, amountIn, minAmountOut)
	if err != nil {
		c.metrics.rejectedTrades.Inc()
		return nil, err
	}
	c.metrics.swaps.Inc()
	c.log.Debug("executed pool swap",
		zap.Stringer("curveID", c.id),
		zap.Stringer("tokenIn", tokenIn),
		zap.String("amountIn", amountIn.Dec()),
		zap.String("amountOut", out.Dec()),
	)
	return out, nil
}

func (c *Curve) swap(ctx context.Context, tokenIn curve.AssetID, amountIn, minAmountOut *uint256.Int) (*uint256.Int, error) {
	if _, err := c.requirePricer(); err != nil {
		return nil, err
	}
	view := tstate.New(c.db)
	s, err := storage.GetCurveState(ctx, view, c.id)
	if err != nil {
		return nil, err
	}
	if !s.Graduated {
		return nil, ErrNotGraduated
	}
	exchange, err := c.opts.NewAMM(view)
	if err != nil {
		return nil, err
	}
	out, err := exchange.Swap(ctx, s.Pool, tokenIn, amountIn)
	if err != nil {
		return nil, err
	}
	if out.Lt(minAmountOut) {
		return nil, fmt.Errorf("%w: got %s, wanted at least %s", ErrSlippageExceeded, out.Dec(), minAmountOut.Dec())
	}
	if err := view.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
