// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"context"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/state"
	"github.com/ava-labs/curvevm/storage"
)

// Strategy selects how LP tokens received on graduation are divided.
type Strategy uint8

const (
	FullBurn Strategy = iota
	CommunityRewards
	CreatorAllocation
	DAOGoverned
)

// Destination is where a share of the LP tokens ends up.
type Destination uint8

const (
	Burn Destination = iota
	Holders
	Community
	Creator
	Treasury
)

func (d Destination) String() string {
	switch d {
	case Burn:
		return "burn"
	case Holders:
		return "holders"
	case Community:
		return "community"
	case Creator:
		return "creator"
	case Treasury:
		return "treasury"
	default:
		return "unknown"
	}
}

type bucket struct {
	destination Destination
	pct         uint64
}

// The last bucket of each strategy receives the remainder.
var strategies = map[Strategy][]bucket{
	FullBurn: {
		{Burn, 80},
		{Holders, 20},
	},
	CommunityRewards: {
		{Community, 60},
		{Holders, 20},
		{Creator, 20},
	},
	CreatorAllocation: {
		{Creator, 40},
		{Holders, 40},
		{Community, 20},
	},
	DAOGoverned: {
		{Treasury, 50},
		{Holders, 30},
		{Community, 20},
	},
}

// Strategies returns every supported strategy in ascending order.
func Strategies() []Strategy {
	s := maps.Keys(strategies)
	slices.Sort(s)
	return s
}

func ParseStrategy(v uint64) (Strategy, error) {
	s := Strategy(v)
	if v > uint64(DAOGoverned) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStrategy, v)
	}
	return s, nil
}

func (s Strategy) String() string {
	switch s {
	case FullBurn:
		return "full-burn"
	case CommunityRewards:
		return "community"
	case CreatorAllocation:
		return "creator"
	case DAOGoverned:
		return "dao"
	default:
		return "unknown"
	}
}

type Allocation struct {
	Destination Destination
	Amount      *uint256.Int
}

// Split divides [total] according to [strategy]. The amounts always sum to
// [total].
func Split(strategy Strategy, total *uint256.Int) ([]Allocation, error) {
	buckets, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrategy, strategy)
	}
	var (
		allocations = make([]Allocation, 0, len(buckets))
		remaining   = total.Clone()
	)
	for i, b := range buckets {
		if i == len(buckets)-1 {
			allocations = append(allocations, Allocation{b.destination, remaining})
			break
		}
		amount, err := fixedpoint.MulDivUint64(total, b.pct, 100)
		if err != nil {
			return nil, err
		}
		remaining = new(uint256.Int).Sub(remaining, amount)
		allocations = append(allocations, Allocation{b.destination, amount})
	}
	return allocations, nil
}

// Distributor moves LP tokens out of the curve.
type Distributor interface {
	Burn(ctx context.Context, amount *uint256.Int) error
	Send(ctx context.Context, destination Destination, amount *uint256.Int) error
}

// Distribute splits [total] with [strategy] and hands each non-empty share to
// [d]. It returns the full split, including empty shares.
func Distribute(ctx context.Context, d Distributor, strategy Strategy, total *uint256.Int) ([]Allocation, error) {
	allocations, err := Split(strategy, total)
	if err != nil {
		return nil, err
	}
	for _, a := range allocations {
		if a.Amount.IsZero() {
			continue
		}
		if a.Destination == Burn {
			err = d.Burn(ctx, a.Amount)
		} else {
			err = d.Send(ctx, a.Destination, a.Amount)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: distributing to %s", err, a.Destination)
		}
	}
	return allocations, nil
}

var _ Distributor = (*StateDistributor)(nil)

// StateDistributor records each share against the curve in state. Burned
// shares are recorded too so the ledger accounts for every LP token.
type StateDistributor struct {
	mu      state.Mutable
	curveID ids.ID
}

func NewStateDistributor(mu state.Mutable, curveID ids.ID) *StateDistributor {
	return &StateDistributor{
		mu:      mu,
		curveID: curveID,
	}
}

func (s *StateDistributor) Burn(ctx context.Context, amount *uint256.Int) error {
	return storage.AddLPAllocation(ctx, s.mu, s.curveID, uint8(Burn), amount)
}

func (s *StateDistributor) Send(ctx context.Context, destination Destination, amount *uint256.Int) error {
	return storage.AddLPAllocation(ctx, s.mu, s.curveID, uint8(destination), amount)
}
