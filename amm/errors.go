// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import "errors"

var (
	ErrPoolNotFound                = errors.New("pool not found")
	ErrIdenticalTokens             = errors.New("identical tokens")
	ErrUnknownToken                = errors.New("token not in pool")
	ErrReservesZero                = errors.New("reserves are zero")
	ErrZeroAmount                  = errors.New("amount is zero")
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInvalidFee                  = errors.New("invalid fee")
)
