// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/contract"
)

// Curve is the read surface of a curve served over JSON-RPC.
type Curve interface {
	ID() ids.ID
	BuyCost(ctx context.Context, quantity *uint256.Int) (*uint256.Int, error)
	SellReturn(ctx context.Context, quantity *uint256.Int) (*uint256.Int, error)
	SpotPrice(ctx context.Context) (*uint256.Int, error)
	QueryState(ctx context.Context) (*contract.State, error)
	GraduationStatus(ctx context.Context, currentBlock uint64) (*contract.GraduationStatus, error)
	PoolState(ctx context.Context) (*contract.PoolState, error)
}

type Backend interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Curve() Curve
}
