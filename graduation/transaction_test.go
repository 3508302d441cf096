// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/state"
	"github.com/ava-labs/curvevm/storage"
	"github.com/ava-labs/curvevm/trace"
	"github.com/ava-labs/curvevm/tstate"
)

var (
	testFactory = curve.AssetID{Block: 2, Tx: 1}
	testToken   = curve.AssetID{Block: 100, Tx: 1}
	testPool    = curve.AssetID{Block: 2, Tx: 7}
	testBase    = curve.BUSD.AssetID()

	errAMM = errors.New("amm failure")
)

type graduationEnv struct {
	ctx       context.Context
	db        *state.Database
	view      *tstate.View
	graduator *Graduator
	curveID   ids.ID
}

// newGraduationEnv stores a curve with 1e13 supply and 1e13 reserves on a
// flat price of one base unit, which is eligible for organic graduation.
func newGraduationEnv(t *testing.T, supply uint64) *graduationEnv {
	require := require.New(t)
	ctx := context.TODO()
	db := state.NewMemory()
	curveID := ids.GenerateTestID()

	require.NoError(storage.SetToken(ctx, db, curveID, testToken))
	require.NoError(storage.SetSupply(ctx, db, curveID, uint256.NewInt(supply)))
	require.NoError(storage.SetReserves(ctx, db, curveID, uint256.NewInt(10_000_000_000_000)))
	require.NoError(storage.SetLaunchBlock(ctx, db, curveID, 10))
	require.NoError(storage.SetStrategy(ctx, db, curveID, uint8(FullBurn)))

	evaluator := newTestEvaluator(flatParams(10_000_000_000_000))
	return &graduationEnv{
		ctx:       ctx,
		db:        db,
		view:      tstate.New(db),
		graduator: New(logging.NoLog{}, trace.Noop("test"), evaluator, testFactory),
		curveID:   curveID,
	}
}

func (e *graduationEnv) execute(amm AMM, distributor Distributor) (*Result, error) {
	return e.graduator.Execute(e.ctx, e.view, amm, distributor, e.curveID, 20)
}

func expectPool(amm *MockAMM, token0, token1 curve.AssetID) {
	amm.EXPECT().CreatePool(gomock.Any(), testFactory, testToken, testBase).Return(testPool, nil)
	amm.EXPECT().GetPair(gomock.Any(), testPool).Return(token0, token1, nil)
	amm.EXPECT().IsInitialized(gomock.Any(), testPool).Return(true, nil)
}

func TestGraduate(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	env := newGraduationEnv(t, 10_000_000_000_000)

	amm := NewMockAMM(ctrl)
	expectPool(amm, testBase, testToken)
	amm.EXPECT().AddLiquidity(gomock.Any(), testPool, &Deposit{
		Token0:  testBase,
		Amount0: uint256.NewInt(2_000_000_000_000),
		Token1:  testToken,
		Amount1: uint256.NewInt(2_000_000_000_000),
	}).Return(uint256.NewInt(1_000_000_000), nil, nil)

	result, err := env.execute(amm, NewStateDistributor(env.view, env.curveID))
	require.NoError(err)
	require.Equal(Organic, result.Kind)
	require.Equal(testPool, result.Pool)
	require.Equal(uint256.NewInt(1_000_000_000), result.LPTokens)
	require.NoError(env.view.Commit(env.ctx))

	s, err := storage.GetCurveState(env.ctx, env.db, env.curveID)
	require.NoError(err)
	require.True(s.Graduated)
	require.Equal(testPool, s.Pool)
	require.Equal(uint256.NewInt(1_000_000_000), s.LPBalance)
	require.Equal(uint64(20), s.GraduationBlock)
	require.Equal(uint256.NewInt(8_000_000_000_000), s.Reserves)
	require.Equal(uint256.NewInt(12_000_000_000_000), s.Supply)

	burned, err := storage.GetLPAllocation(env.ctx, env.db, env.curveID, uint8(Burn))
	require.NoError(err)
	require.Equal(uint256.NewInt(800_000_000), burned)
	holders, err := storage.GetLPAllocation(env.ctx, env.db, env.curveID, uint8(Holders))
	require.NoError(err)
	require.Equal(uint256.NewInt(200_000_000), holders)

	// Graduation is one-way. The AMM is not consulted again.
	_, err = env.execute(NewMockAMM(ctrl), NewStateDistributor(env.view, env.curveID))
	require.ErrorIs(err, ErrAlreadyGraduated)
}

func TestGraduateRemainder(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	env := newGraduationEnv(t, 10_000_000_000_000)

	amm := NewMockAMM(ctrl)
	expectPool(amm, testToken, testBase)
	amm.EXPECT().AddLiquidity(gomock.Any(), testPool, &Deposit{
		Token0:  testToken,
		Amount0: uint256.NewInt(2_000_000_000_000),
		Token1:  testBase,
		Amount1: uint256.NewInt(2_000_000_000_000),
	}).Return(
		uint256.NewInt(1_000),
		&Deposit{Token0: testToken, Amount0: uint256.NewInt(500_000_000_000), Token1: testBase, Amount1: new(uint256.Int)},
		nil,
	)

	result, err := env.execute(amm, &MockDistributor{})
	require.NoError(err)
	require.Equal(uint256.NewInt(1_500_000_000_000), result.PoolTokens)
	require.Equal(uint256.NewInt(2_000_000_000_000), result.PoolBase)

	supply, err := storage.GetSupply(env.ctx, env.view, env.curveID)
	require.NoError(err)
	require.Equal(uint256.NewInt(11_500_000_000_000), supply)
}

func TestGraduateCriteriaNotMet(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	env := newGraduationEnv(t, 1_000)

	// Reserves of 1e13 alone clear half the threshold, so drop them.
	require.NoError(storage.SetReserves(env.ctx, env.db, env.curveID, uint256.NewInt(1)))

	_, err := env.execute(NewMockAMM(ctrl), &MockDistributor{})
	require.ErrorIs(err, ErrGraduationCriteriaNotMet)
	require.Zero(env.view.PendingChanges())
}

func TestGraduateUninitialized(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	env := newGraduationEnv(t, 10_000_000_000_000)

	_, err := env.graduator.Execute(env.ctx, env.view, NewMockAMM(ctrl), &MockDistributor{}, ids.GenerateTestID(), 20)
	require.Error(err)
}

func TestGraduateFailureLeavesStateUntouched(t *testing.T) {
	other := curve.AssetID{Block: 9, Tx: 9}
	tests := []struct {
		name        string
		setup       func(*MockAMM)
		distributor Distributor
		err         error
	}{
		{
			name: "create pool fails",
			setup: func(amm *MockAMM) {
				amm.EXPECT().CreatePool(gomock.Any(), testFactory, testToken, testBase).Return(curve.EmptyAssetID, errAMM)
			},
			err: ErrPoolVerificationFailed,
		},
		{
			name: "get pair fails",
			setup: func(amm *MockAMM) {
				amm.EXPECT().CreatePool(gomock.Any(), testFactory, testToken, testBase).Return(testPool, nil)
				amm.EXPECT().GetPair(gomock.Any(), testPool).Return(curve.EmptyAssetID, curve.EmptyAssetID, errAMM)
			},
			err: ErrPoolVerificationFailed,
		},
		{
			name: "wrong pair",
			setup: func(amm *MockAMM) {
				amm.EXPECT().CreatePool(gomock.Any(), testFactory, testToken, testBase).Return(testPool, nil)
				amm.EXPECT().GetPair(gomock.Any(), testPool).Return(testToken, other, nil)
			},
			err: ErrPoolVerificationFailed,
		},
		{
			name: "pool not initialized",
			setup: func(amm *MockAMM) {
				amm.EXPECT().CreatePool(gomock.Any(), testFactory, testToken, testBase).Return(testPool, nil)
				amm.EXPECT().GetPair(gomock.Any(), testPool).Return(testToken, testBase, nil)
				amm.EXPECT().IsInitialized(gomock.Any(), testPool).Return(false, nil)
			},
			err: ErrPoolVerificationFailed,
		},
		{
			name: "add liquidity fails",
			setup: func(amm *MockAMM) {
				expectPool(amm, testToken, testBase)
				amm.EXPECT().AddLiquidity(gomock.Any(), testPool, gomock.Any()).Return(nil, nil, errAMM)
			},
			err: errAMM,
		},
		{
			name: "no lp tokens",
			setup: func(amm *MockAMM) {
				expectPool(amm, testToken, testBase)
				amm.EXPECT().AddLiquidity(gomock.Any(), testPool, gomock.Any()).Return(new(uint256.Int), nil, nil)
			},
			err: ErrNoLiquidityTokens,
		},
		{
			name: "distribution fails",
			setup: func(amm *MockAMM) {
				expectPool(amm, testToken, testBase)
				amm.EXPECT().AddLiquidity(gomock.Any(), testPool, gomock.Any()).Return(uint256.NewInt(1_000), nil, nil)
			},
			distributor: &MockDistributor{
				OnBurn: func(context.Context, *uint256.Int) error {
					return errAMM
				},
			},
			err: errAMM,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)
			env := newGraduationEnv(t, 10_000_000_000_000)
			before, err := storage.GetCurveState(env.ctx, env.view, env.curveID)
			require.NoError(err)

			amm := NewMockAMM(ctrl)
			tt.setup(amm)
			distributor := tt.distributor
			if distributor == nil {
				distributor = NewStateDistributor(env.view, env.curveID)
			}
			_, err = env.execute(amm, distributor)
			require.ErrorIs(err, tt.err)

			require.Zero(env.view.PendingChanges())
			after, err := storage.GetCurveState(env.ctx, env.view, env.curveID)
			require.NoError(err)
			require.Equal(before, after)
		})
	}
}

func TestGraduateRollbackKeepsEarlierWrites(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	env := newGraduationEnv(t, 10_000_000_000_000)

	// A write staged before Execute survives a failed graduation.
	require.NoError(storage.SetLaunchBlock(env.ctx, env.view, env.curveID, 11))
	amm := NewMockAMM(ctrl)
	amm.EXPECT().CreatePool(gomock.Any(), testFactory, testToken, testBase).Return(curve.EmptyAssetID, errAMM)

	_, err := env.execute(amm, &MockDistributor{})
	require.ErrorIs(err, ErrPoolVerificationFailed)
	launch, err := storage.GetLaunchBlock(env.ctx, env.view, env.curveID)
	require.NoError(err)
	require.Equal(uint64(11), launch)
}
