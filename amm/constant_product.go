// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/state"
	"github.com/ava-labs/curvevm/storage"
)

const (
	// MinimumLiquidity LP tokens are locked forever by the first deposit.
	MinimumLiquidity = 1_000

	// FeeDenominator scales the per-swap fee: a fee of 997 keeps 99.7% of
	// the input.
	FeeDenominator = 1_000
	DefaultFee     = 997
)

var (
	_ graduation.AMM = (*ConstantProduct)(nil)

	minimumLiquidity = uint256.NewInt(MinimumLiquidity)
)

// ConstantProduct is an x*y=k exchange whose pools live in [state.Mutable].
type ConstantProduct struct {
	mu  state.Mutable
	fee uint64
}

func New(mu state.Mutable, fee uint64) (*ConstantProduct, error) {
	if fee == 0 || fee > FeeDenominator {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFee, fee)
	}
	return &ConstantProduct{
		mu:  mu,
		fee: fee,
	}, nil
}

// CreatePool creates an initialized, empty pool. Its tokens are stored in
// ascending (block, tx) order regardless of argument order.
func (c *ConstantProduct) CreatePool(ctx context.Context, factory, tokenA, tokenB curve.AssetID) (curve.AssetID, error) {
	if tokenA == tokenB {
		return curve.EmptyAssetID, ErrIdenticalTokens
	}
	token0, token1 := sortTokens(tokenA, tokenB)
	count, err := storage.IncrementAMMPoolCount(ctx, c.mu, factory)
	if err != nil {
		return curve.EmptyAssetID, err
	}
	id := curve.AssetID{Block: factory.Block, Tx: factory.Tx + count + 1}
	if err := storage.SetAMMPool(ctx, c.mu, id, &storage.Pool{
		Token0:      token0,
		Token1:      token1,
		Reserve0:    new(uint256.Int),
		Reserve1:    new(uint256.Int),
		LPSupply:    new(uint256.Int),
		Fee:         c.fee,
		Initialized: true,
	}); err != nil {
		return curve.EmptyAssetID, err
	}
	return id, nil
}

func (c *ConstantProduct) GetPair(ctx context.Context, pool curve.AssetID) (curve.AssetID, curve.AssetID, error) {
	p, err := c.getPool(ctx, pool)
	if err != nil {
		return curve.EmptyAssetID, curve.EmptyAssetID, err
	}
	return p.Token0, p.Token1, nil
}

func (c *ConstantProduct) IsInitialized(ctx context.Context, pool curve.AssetID) (bool, error) {
	p, err := storage.GetAMMPool(ctx, c.mu, pool)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Initialized, nil
}

// Reserves returns the pool's reserves in pair order along with its LP supply.
func (c *ConstantProduct) Reserves(ctx context.Context, pool curve.AssetID) (*uint256.Int, *uint256.Int, *uint256.Int, error) {
	p, err := c.getPool(ctx, pool)
	if err != nil {
		return nil, nil, nil, err
	}
	return p.Reserve0, p.Reserve1, p.LPSupply, nil
}

// AddLiquidity mints LP tokens for [deposit]. The first deposit mints
// sqrt(amount0 * amount1) less [MinimumLiquidity] and takes everything; later
// deposits are taken at the current reserve ratio and the excess of one leg
// is returned.
func (c *ConstantProduct) AddLiquidity(
	ctx context.Context,
	pool curve.AssetID,
	deposit *graduation.Deposit,
) (*uint256.Int, *graduation.Deposit, error) {
	p, err := c.getPool(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	amount0 := deposit.Amount(p.Token0)
	amount1 := deposit.Amount(p.Token1)
	if amount0.IsZero() || amount1.IsZero() {
		return nil, nil, ErrZeroAmount
	}

	var liquidity *uint256.Int
	if p.LPSupply.IsZero() {
		k := new(uint256.Int).Mul(amount0, amount1)
		root := new(uint256.Int).Sqrt(k)
		if !root.Gt(minimumLiquidity) {
			return nil, nil, ErrInsufficientLiquidityMinted
		}
		liquidity = new(uint256.Int).Sub(root, minimumLiquidity)
		p.LPSupply = root
	} else {
		amount0, amount1, err = optimalAmounts(p, amount0, amount1)
		if err != nil {
			return nil, nil, err
		}
		liquidity0, err := fixedpoint.MulDiv(amount0, p.LPSupply, p.Reserve0)
		if err != nil {
			return nil, nil, err
		}
		liquidity1, err := fixedpoint.MulDiv(amount1, p.LPSupply, p.Reserve1)
		if err != nil {
			return nil, nil, err
		}
		liquidity = fixedpoint.Min(liquidity0, liquidity1).Clone()
		if liquidity.IsZero() {
			return nil, nil, ErrInsufficientLiquidityMinted
		}
		if p.LPSupply, err = fixedpoint.Add(p.LPSupply, liquidity); err != nil {
			return nil, nil, err
		}
	}

	if p.Reserve0, err = fixedpoint.Add(p.Reserve0, amount0); err != nil {
		return nil, nil, err
	}
	if p.Reserve1, err = fixedpoint.Add(p.Reserve1, amount1); err != nil {
		return nil, nil, err
	}
	if err := storage.SetAMMPool(ctx, c.mu, pool, p); err != nil {
		return nil, nil, err
	}
	remainder := &graduation.Deposit{
		Token0:  p.Token0,
		Amount0: fixedpoint.SaturatingSub(deposit.Amount(p.Token0), amount0),
		Token1:  p.Token1,
		Amount1: fixedpoint.SaturatingSub(deposit.Amount(p.Token1), amount1),
	}
	return liquidity, remainder, nil
}

// Swap sells [amountIn] of [tokenIn] into [pool] and returns the amount of
// the other token paid out.
func (c *ConstantProduct) Swap(ctx context.Context, pool, tokenIn curve.AssetID, amountIn *uint256.Int) (*uint256.Int, error) {
	p, err := c.getPool(ctx, pool)
	if err != nil {
		return nil, err
	}
	if amountIn.IsZero() {
		return nil, ErrZeroAmount
	}
	if p.Reserve0.IsZero() || p.Reserve1.IsZero() {
		return nil, ErrReservesZero
	}

	var reserveIn, reserveOut *uint256.Int
	switch tokenIn {
	case p.Token0:
		reserveIn, reserveOut = p.Reserve0, p.Reserve1
	case p.Token1:
		reserveIn, reserveOut = p.Reserve1, p.Reserve0
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, tokenIn)
	}

	// out = in*fee*reserveOut / (reserveIn*1000 + in*fee)
	inWithFee := new(uint256.Int).Mul(amountIn, uint256.NewInt(p.Fee))
	denominator := new(uint256.Int).Mul(reserveIn, uint256.NewInt(FeeDenominator))
	denominator.Add(denominator, inWithFee)
	out, err := fixedpoint.MulDiv(inWithFee, reserveOut, denominator)
	if err != nil {
		return nil, err
	}
	newIn, err := fixedpoint.Add(reserveIn, amountIn)
	if err != nil {
		return nil, err
	}
	newOut := new(uint256.Int).Sub(reserveOut, out)
	if tokenIn == p.Token0 {
		p.Reserve0, p.Reserve1 = newIn, newOut
	} else {
		p.Reserve0, p.Reserve1 = newOut, newIn
	}
	if err := storage.SetAMMPool(ctx, c.mu, pool, p); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConstantProduct) getPool(ctx context.Context, pool curve.AssetID) (*storage.Pool, error) {
	p, err := storage.GetAMMPool(ctx, c.mu, pool)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, pool)
	}
	return p, err
}

// optimalAmounts returns the largest amounts at most [amount0] and [amount1]
// that match the pool's reserve ratio.
func optimalAmounts(p *storage.Pool, amount0, amount1 *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if p.Reserve0.IsZero() || p.Reserve1.IsZero() {
		return nil, nil, ErrReservesZero
	}
	optimal1, err := fixedpoint.MulDiv(amount0, p.Reserve1, p.Reserve0)
	if err == nil && !optimal1.Gt(amount1) {
		return amount0, optimal1, nil
	}
	optimal0, err := fixedpoint.MulDiv(amount1, p.Reserve0, p.Reserve1)
	if err != nil {
		return nil, nil, err
	}
	return optimal0, amount1, nil
}

func sortTokens(a, b curve.AssetID) (curve.AssetID, curve.AssetID) {
	if a.Block < b.Block || (a.Block == b.Block && a.Tx < b.Tx) {
		return a, b
	}
	return b, a
}
