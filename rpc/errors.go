// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrUnknownSide   = errors.New("unknown quote side")
)
