// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidValue = errors.New("invalid stored value")
	ErrValueTooWide = errors.New("value does not fit in 128 bits")
)
