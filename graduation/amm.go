// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_amm.go . AMM

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/curve"
)

// AMM is the external constant-product exchange a curve graduates into.
type AMM interface {
	// CreatePool asks [factory] for a new pool trading [tokenA] against
	// [tokenB] and returns its identifier.
	CreatePool(ctx context.Context, factory, tokenA, tokenB curve.AssetID) (curve.AssetID, error)

	// GetPair returns the pool's tokens in the pool's own order.
	GetPair(ctx context.Context, pool curve.AssetID) (curve.AssetID, curve.AssetID, error)

	IsInitialized(ctx context.Context, pool curve.AssetID) (bool, error)

	// AddLiquidity transfers [deposit] into [pool] and returns the LP tokens
	// minted along with any part of the deposit the pool did not take.
	AddLiquidity(ctx context.Context, pool curve.AssetID, deposit *Deposit) (*uint256.Int, *Deposit, error)
}

// Deposit carries both legs of a liquidity addition, ordered as the pool
// reports its pair.
type Deposit struct {
	Token0  curve.AssetID
	Amount0 *uint256.Int
	Token1  curve.AssetID
	Amount1 *uint256.Int
}

// Amount returns the amount deposited for [token], or zero if [token] is not
// part of the deposit.
func (d *Deposit) Amount(token curve.AssetID) *uint256.Int {
	switch {
	case d == nil:
		return new(uint256.Int)
	case token == d.Token0 && d.Amount0 != nil:
		return d.Amount0.Clone()
	case token == d.Token1 && d.Amount1 != nil:
		return d.Amount1.Clone()
	default:
		return new(uint256.Int)
	}
}
