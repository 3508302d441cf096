// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/curve"
)

// flatParams prices every unit at exactly one base unit of precision so
// market cap equals supply.
func flatParams(threshold uint64) *curve.Params {
	return &curve.Params{
		BasePrice:           uint256.NewInt(1_000_000_000),
		GrowthRateBps:       0,
		GraduationThreshold: uint256.NewInt(threshold),
		BaseCurrency:        curve.BUSD,
		MaxSupply:           uint256.NewInt(1_000_000_000_000_000),
	}
}

func newTestEvaluator(params *curve.Params) *Evaluator {
	return NewEvaluator(curve.NewPricer(params, curve.DefaultIntegratorConfig(), nil), DefaultCriteria())
}

func TestMeetsOrganicMarketCapBoundary(t *testing.T) {
	require := require.New(t)
	e := newTestEvaluator(flatParams(10_000_000_000_000))

	ok, err := e.MeetsOrganic(uint256.NewInt(10_000_000_000_000), new(uint256.Int))
	require.NoError(err)
	require.True(ok)

	ok, err = e.MeetsOrganic(uint256.NewInt(9_999_999_999_999), new(uint256.Int))
	require.NoError(err)
	require.False(ok)
}

func TestMeetsOrganicReserves(t *testing.T) {
	require := require.New(t)
	e := newTestEvaluator(flatParams(10_000_000_000_000))

	ok, err := e.MeetsOrganic(uint256.NewInt(1), uint256.NewInt(5_000_000_000_000))
	require.NoError(err)
	require.True(ok)

	ok, err = e.MeetsOrganic(uint256.NewInt(1), uint256.NewInt(4_999_999_999_999))
	require.NoError(err)
	require.False(ok)
}

func TestMeetsOrganicBackedSupply(t *testing.T) {
	tests := []struct {
		name     string
		supply   uint64
		reserves uint64
		want     bool
	}{
		{
			name:     "30% backed at 5% of max supply",
			supply:   50_000_000_000_000,
			reserves: 15_000_000_000_000,
			want:     true,
		},
		{
			name:     "under 30% backed",
			supply:   50_000_000_000_000,
			reserves: 14_999_999_999_999,
			want:     false,
		},
		{
			name:     "under 5% of max supply",
			supply:   49_999_999_999_999,
			reserves: 15_000_000_000_000,
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			e := newTestEvaluator(flatParams(1_000_000_000_000_000))

			ok, err := e.MeetsOrganic(uint256.NewInt(tt.supply), uint256.NewInt(tt.reserves))
			require.NoError(err)
			require.Equal(tt.want, ok)
		})
	}
}

func TestMeetsEmergency(t *testing.T) {
	tests := []struct {
		name     string
		launch   uint64
		current  uint64
		supply   uint64
		reserves uint64
		want     bool
	}{
		{
			name:     "at every floor",
			launch:   100,
			current:  4_420,
			supply:   1_000_000,
			reserves: 100_000_000,
			want:     true,
		},
		{
			name:     "one block early",
			launch:   100,
			current:  4_419,
			supply:   1_000_000,
			reserves: 100_000_000,
			want:     false,
		},
		{
			name:     "current block before launch",
			launch:   10_000,
			current:  5,
			supply:   1_000_000,
			reserves: 100_000_000,
			want:     false,
		},
		{
			name:     "low supply",
			launch:   0,
			current:  10_000,
			supply:   999_999,
			reserves: 100_000_000,
			want:     false,
		},
		{
			name:     "low reserves",
			launch:   0,
			current:  10_000,
			supply:   1_000_000,
			reserves: 99_999_999,
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEvaluator(flatParams(10_000_000_000_000))
			require.Equal(t, tt.want, e.MeetsEmergency(tt.launch, tt.current, uint256.NewInt(tt.supply), uint256.NewInt(tt.reserves)))
		})
	}
}

func TestEvaluate(t *testing.T) {
	require := require.New(t)
	e := newTestEvaluator(flatParams(10_000_000_000_000))

	// Both criteria hold; organic wins.
	d, err := e.Evaluate(0, 10_000, uint256.NewInt(10_000_000_000_000), uint256.NewInt(100_000_000))
	require.NoError(err)
	require.Equal(Organic, d.Kind)
	require.Equal(uint256.NewInt(10_000_000_000_000), d.MarketCap)

	d, err = e.Evaluate(0, 10_000, uint256.NewInt(1_000_000), uint256.NewInt(100_000_000))
	require.NoError(err)
	require.Equal(Emergency, d.Kind)

	d, err = e.Evaluate(0, 10, uint256.NewInt(1_000_000), uint256.NewInt(100_000_000))
	require.NoError(err)
	require.Equal(None, d.Kind)
	require.False(d.Eligible())
}

func TestPoolSplit(t *testing.T) {
	require := require.New(t)
	e := newTestEvaluator(flatParams(10_000_000_000_000))

	split, err := e.PoolSplit(uint256.NewInt(10_000_000_000_000), uint256.NewInt(10_000_000_000_000))
	require.NoError(err)
	require.Equal(uint256.NewInt(2_000_000_000_000), split.Tokens)
	require.Equal(uint256.NewInt(2_000_000_000_000), split.Base)

	// The base leg never exceeds reserves.
	split, err = e.PoolSplit(uint256.NewInt(10_000_000_000_000), uint256.NewInt(5))
	require.NoError(err)
	require.Equal(uint256.NewInt(5), split.Base)

	// The token leg is capped by the remaining headroom.
	split, err = e.PoolSplit(uint256.NewInt(990_000_000_000_000), uint256.NewInt(10_000_000_000_000))
	require.NoError(err)
	require.Equal(uint256.NewInt(10_000_000_000_000), split.Tokens)
}

func TestLiquiditySufficient(t *testing.T) {
	require := require.New(t)
	e := newTestEvaluator(flatParams(10_000_000_000_000))

	ok, err := e.LiquiditySufficient(uint256.NewInt(10_000_000_000_000), uint256.NewInt(10_000_000_000_000))
	require.NoError(err)
	require.True(ok)

	ok, err = e.LiquiditySufficient(uint256.NewInt(10_000_000_000_000), uint256.NewInt(999_999_999))
	require.NoError(err)
	require.False(ok)

	ok, err = e.LiquiditySufficient(uint256.NewInt(4_999_999), uint256.NewInt(10_000_000_000_000))
	require.NoError(err)
	require.False(ok)
}

func TestCriteriaVerify(t *testing.T) {
	require := require.New(t)

	require.NoError(DefaultCriteria().Verify())
	c := DefaultCriteria()
	c.PoolTokenPct = 101
	require.ErrorIs(c.Verify(), ErrInvalidCriteria)
	c.PoolTokenPct = 0
	require.ErrorIs(c.Verify(), ErrInvalidCriteria)
}
