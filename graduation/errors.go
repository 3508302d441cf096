// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import "errors"

var (
	ErrAlreadyGraduated         = errors.New("already graduated")
	ErrGraduationCriteriaNotMet = errors.New("graduation criteria not met")
	ErrPoolVerificationFailed   = errors.New("pool verification failed")
	ErrNoLiquidityTokens        = errors.New("no liquidity tokens received")
	ErrInvalidStrategy          = errors.New("invalid lp strategy")
	ErrInvalidCriteria          = errors.New("invalid graduation criteria")
)
