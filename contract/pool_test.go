// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/amm"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/state"
)

func TestPoolTradingRequiresGraduation(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	c, _ := newInitializedCurve(t, flatParams(10_000_000_000_000), testOptions())

	_, err := c.PoolState(ctx)
	require.ErrorIs(err, ErrNotGraduated)
	_, err = c.Swap(ctx, curve.BUSD.AssetID(), uint256.NewInt(1_000), new(uint256.Int))
	require.ErrorIs(err, ErrNotGraduated)

	uninitialized := newCurve(t, state.NewMemory(), c.ID(), testOptions())
	_, err = uninitialized.Swap(ctx, testToken, uint256.NewInt(1), new(uint256.Int))
	require.ErrorIs(err, ErrNotInitialized)
}

func TestPoolSwap(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	c, _ := newInitializedCurve(t, flatParams(10_000_000_000_000), testOptions())

	baseIn := new(uint256.Int).Mul(uint256.NewInt(10_000_000_000_000), uint256.NewInt(1_000_000_000))
	_, err := c.ExecuteBuy(ctx, baseIn, new(uint256.Int))
	require.NoError(err)
	result, err := c.AttemptGraduation(ctx, 1)
	require.NoError(err)

	reserve := uint256.NewInt(2_000_000_000_000)
	pool, err := c.PoolState(ctx)
	require.NoError(err)
	require.Equal(result.Pool, pool.Pool)
	require.Equal(testToken, pool.Token)
	require.Equal(curve.BUSD.AssetID(), pool.Base)
	require.Equal(reserve, pool.TokenReserve)
	require.Equal(reserve, pool.BaseReserve)
	require.Equal(reserve, pool.LPSupply)

	// 1e9*997*2e12 / (2e12*1000 + 1e9*997)
	amountIn := uint256.NewInt(1_000_000_000)
	_, err = c.Swap(ctx, curve.BUSD.AssetID(), amountIn, uint256.NewInt(1_000_000_000))
	require.ErrorIs(err, ErrSlippageExceeded)
	unchanged, err := c.PoolState(ctx)
	require.NoError(err)
	require.Equal(pool, unchanged)

	out, err := c.Swap(ctx, curve.BUSD.AssetID(), amountIn, uint256.NewInt(996_000_000))
	require.NoError(err)
	require.Equal(uint256.NewInt(996_503_243), out)

	after, err := c.PoolState(ctx)
	require.NoError(err)
	require.Equal(new(uint256.Int).Add(reserve, amountIn), after.BaseReserve)
	require.Equal(new(uint256.Int).Sub(reserve, out), after.TokenReserve)

	// Selling the token back pays out base currency.
	back, err := c.Swap(ctx, testToken, out, new(uint256.Int))
	require.NoError(err)
	require.True(back.Lt(amountIn))

	_, err = c.Swap(ctx, curve.AssetID{Block: 7, Tx: 7}, amountIn, new(uint256.Int))
	require.ErrorIs(err, amm.ErrUnknownToken)
}
