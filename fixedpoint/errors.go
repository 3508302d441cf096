// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import "errors"

var (
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrUnderflow          = errors.New("arithmetic underflow")
	ErrDivisionByZero     = errors.New("division by zero")
)
