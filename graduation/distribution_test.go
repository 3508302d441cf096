// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/state"
	"github.com/ava-labs/curvevm/storage"
)

func TestSplitFullBurn(t *testing.T) {
	require := require.New(t)

	allocations, err := Split(FullBurn, uint256.NewInt(1_000_000_000))
	require.NoError(err)
	require.Equal([]Allocation{
		{Destination: Burn, Amount: uint256.NewInt(800_000_000)},
		{Destination: Holders, Amount: uint256.NewInt(200_000_000)},
	}, allocations)
}

func TestSplitSumsToTotal(t *testing.T) {
	totals := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(7),
		uint256.NewInt(999),
		uint256.NewInt(1_000_000_001),
		fixedpoint.MaxUint128(),
	}
	for _, strategy := range Strategies() {
		for _, total := range totals {
			t.Run(strategy.String()+"/"+total.Dec(), func(t *testing.T) {
				require := require.New(t)

				allocations, err := Split(strategy, total)
				require.NoError(err)
				sum := new(uint256.Int)
				for _, a := range allocations {
					sum.Add(sum, a.Amount)
				}
				require.Equal(total, sum)
			})
		}
	}
}

func TestSplitShares(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     map[Destination]uint64
	}{
		{
			strategy: CommunityRewards,
			want:     map[Destination]uint64{Community: 600, Holders: 200, Creator: 200},
		},
		{
			strategy: CreatorAllocation,
			want:     map[Destination]uint64{Creator: 400, Holders: 400, Community: 200},
		},
		{
			strategy: DAOGoverned,
			want:     map[Destination]uint64{Treasury: 500, Holders: 300, Community: 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			require := require.New(t)

			allocations, err := Split(tt.strategy, uint256.NewInt(1_000))
			require.NoError(err)
			require.Len(allocations, len(tt.want))
			for _, a := range allocations {
				require.Equal(tt.want[a.Destination], a.Amount.Uint64(), a.Destination.String())
			}
		})
	}
}

func TestInvalidStrategy(t *testing.T) {
	require := require.New(t)

	_, err := Split(Strategy(4), uint256.NewInt(1))
	require.ErrorIs(err, ErrInvalidStrategy)
	_, err = ParseStrategy(4)
	require.ErrorIs(err, ErrInvalidStrategy)
	s, err := ParseStrategy(3)
	require.NoError(err)
	require.Equal(DAOGoverned, s)
}

func TestDistributeSkipsEmptyShares(t *testing.T) {
	require := require.New(t)

	var burned bool
	sent := map[Destination]*uint256.Int{}
	d := &MockDistributor{
		OnBurn: func(context.Context, *uint256.Int) error {
			burned = true
			return nil
		},
		OnSend: func(_ context.Context, destination Destination, amount *uint256.Int) error {
			sent[destination] = amount
			return nil
		},
	}
	// 80% of 1 rounds to zero so only holders receive anything.
	allocations, err := Distribute(context.TODO(), d, FullBurn, uint256.NewInt(1))
	require.NoError(err)
	require.Len(allocations, 2)
	require.False(burned)
	require.Equal(map[Destination]*uint256.Int{Holders: uint256.NewInt(1)}, sent)
}

func TestDistributeError(t *testing.T) {
	require := require.New(t)

	errSend := errors.New("send failed")
	d := &MockDistributor{
		OnSend: func(context.Context, Destination, *uint256.Int) error {
			return errSend
		},
	}
	_, err := Distribute(context.TODO(), d, CommunityRewards, uint256.NewInt(1_000))
	require.ErrorIs(err, errSend)
}

func TestStateDistributor(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := state.NewMemory()
	curveID := ids.GenerateTestID()

	_, err := Distribute(ctx, NewStateDistributor(db, curveID), DAOGoverned, uint256.NewInt(1_000))
	require.NoError(err)
	for destination, want := range map[Destination]uint64{
		Treasury:  500,
		Holders:   300,
		Community: 200,
		Burn:      0,
		Creator:   0,
	} {
		v, err := storage.GetLPAllocation(ctx, db, curveID, uint8(destination))
		require.NoError(err)
		require.Equal(want, v.Uint64(), destination.String())
	}
}
