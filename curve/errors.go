// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import "errors"

var (
	ErrSupplyCapExceeded   = errors.New("supply cap exceeded")
	ErrInsufficientSupply  = errors.New("insufficient supply")
	ErrInsufficientBase    = errors.New("base amount too small to buy any tokens")
	ErrInvalidParams       = errors.New("invalid curve parameters")
	ErrUnknownBaseCurrency = errors.New("unknown base currency")
	ErrInvalidAssetID      = errors.New("invalid asset id")
)
