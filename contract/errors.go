// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import "errors"

var (
	ErrAlreadyInitialized   = errors.New("curve already initialized")
	ErrNotInitialized       = errors.New("curve not initialized")
	ErrNotGraduated         = errors.New("curve not graduated")
	ErrInsufficientReserves = errors.New("insufficient reserves")
	ErrSlippageExceeded     = errors.New("slippage exceeded")
	ErrMissingFactory       = errors.New("no amm factory for base currency")
	ErrInvalidPayload       = errors.New("invalid payload")
)
