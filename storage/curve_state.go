// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/state"
)

// CurveState is the mutable state of one curve instance.
type CurveState struct {
	Token           curve.AssetID
	Supply          *uint256.Int
	Reserves        *uint256.Int
	Graduated       bool
	Pool            curve.AssetID
	LPBalance       *uint256.Int
	LaunchBlock     uint64
	GraduationBlock uint64
	Strategy        uint8
}

func GetCurveState(ctx context.Context, im state.Immutable, curveID ids.ID) (*CurveState, error) {
	var (
		s   = &CurveState{}
		err error
	)
	if s.Token, err = GetToken(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.Supply, err = GetSupply(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.Reserves, err = GetReserves(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.Graduated, err = IsGraduated(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.Pool, err = GetPool(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.LPBalance, err = GetLPBalance(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.LaunchBlock, err = GetLaunchBlock(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.GraduationBlock, err = GetGraduationBlock(ctx, im, curveID); err != nil {
		return nil, err
	}
	if s.Strategy, err = GetStrategy(ctx, im, curveID); err != nil {
		return nil, err
	}
	return s, nil
}
