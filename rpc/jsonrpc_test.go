// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/amm"
	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/state"
	ctrace "github.com/ava-labs/curvevm/trace"
)

type testBackend struct {
	curve *contract.Curve
}

func (*testBackend) Logger() logging.Logger { return logging.NoLog{} }
func (*testBackend) Tracer() trace.Tracer   { return ctrace.Noop("test") }
func (b *testBackend) Curve() Curve         { return b.curve }

func newTestCurve(t *testing.T) *contract.Curve {
	require := require.New(t)
	ctx := context.TODO()

	metrics, err := contract.NewMetrics(prometheus.NewRegistry())
	require.NoError(err)
	c, err := contract.New(ctx, logging.NoLog{}, ctrace.Noop("test"), metrics, state.NewMemory(), ids.GenerateTestID(), contract.Options{
		Integrator: curve.DefaultIntegratorConfig(),
		Criteria:   graduation.DefaultCriteria(),
		Factories: map[curve.BaseCurrency]curve.AssetID{
			curve.BUSD: {Block: 2, Tx: 1},
		},
		NewAMM: func(mu state.Mutable) (contract.Exchange, error) {
			return amm.New(mu, amm.DefaultFee)
		},
	})
	require.NoError(err)
	require.NoError(c.Initialize(ctx, &contract.InitArgs{
		Name:   "Moon Token",
		Symbol: "MOON",
		Token:  curve.AssetID{Block: 100, Tx: 1},
		Params: &curve.Params{
			BasePrice:           uint256.NewInt(1_000_000_000),
			GraduationThreshold: uint256.NewInt(10_000_000_000_000),
			BaseCurrency:        curve.BUSD,
			MaxSupply:           uint256.NewInt(1_000_000_000_000_000),
		},
		Strategy:    graduation.CommunityRewards,
		LaunchBlock: 10,
	}))
	return c
}

func newTestClient(t *testing.T, c *contract.Curve) *JSONRPCClient {
	handler, err := NewJSONRPCHandler(Name, NewJSONRPCServer(&testBackend{curve: c}))
	require.NoError(t, err)
	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewJSONRPCClient(srv.URL)
}

func TestPing(t *testing.T) {
	require := require.New(t)
	cli := newTestClient(t, newTestCurve(t))

	ok, err := cli.Ping(context.TODO())
	require.NoError(err)
	require.True(ok)
}

func TestQuote(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	c := newTestCurve(t)
	cli := newTestClient(t, c)

	cost, err := cli.BuyCost(ctx, uint256.NewInt(5))
	require.NoError(err)
	require.Equal(uint256.NewInt(5_000_000_000), cost)

	_, err = cli.SellReturn(ctx, uint256.NewInt(1))
	require.ErrorContains(err, curve.ErrInsufficientSupply.Error())

	_, err = c.ExecuteBuy(ctx, uint256.NewInt(5_000_000_000), uint256.NewInt(5))
	require.NoError(err)

	payout, err := cli.SellReturn(ctx, uint256.NewInt(2))
	require.NoError(err)
	require.Equal(uint256.NewInt(1_960_000_000), payout)

	price, err := cli.SpotPrice(ctx)
	require.NoError(err)
	require.Equal(uint256.NewInt(1_000_000_000), price)
}

func TestState(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	c := newTestCurve(t)
	cli := newTestClient(t, c)

	_, err := c.ExecuteBuy(ctx, uint256.NewInt(5_000_000_000), uint256.NewInt(5))
	require.NoError(err)

	s, err := cli.State(ctx)
	require.NoError(err)
	require.Equal(c.ID(), s.CurveID)
	require.Equal("Moon Token", s.Name)
	require.Equal("MOON", s.Symbol)
	require.Equal("100:1", s.Token)
	require.Equal(curve.BUSD.String(), s.BaseCurrency)
	require.Equal("5", s.Supply)
	require.Equal("5000000000", s.Reserves)
	require.Equal("1000000000", s.SpotPrice)
	require.False(s.Graduated)
	require.Empty(s.Pool)
	require.Equal(uint64(10), s.LaunchBlock)
	require.Equal(graduation.CommunityRewards.String(), s.Strategy)

	status, err := cli.GraduationStatus(ctx, 25)
	require.NoError(err)
	require.False(status.Graduated)
	require.False(status.Organic)
	require.False(status.Emergency)
	require.Equal(uint64(15), status.BlocksSinceLaunch)
}

func TestQuoteInvalidAmount(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	cli := newTestClient(t, newTestCurve(t))

	// 2^128 does not fit.
	_, err := cli.BuyCost(ctx, new(uint256.Int).Lsh(uint256.NewInt(1), 128))
	require.ErrorContains(err, ErrInvalidAmount.Error())

	_, err = cli.quote(ctx, "hold", uint256.NewInt(1))
	require.ErrorContains(err, ErrUnknownSide.Error())
}

func TestRawPayloads(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	c := newTestCurve(t)
	cli := newTestClient(t, c)

	_, err := c.ExecuteBuy(ctx, uint256.NewInt(5_000_000_000), uint256.NewInt(5))
	require.NoError(err)

	p, err := cli.RawState(ctx)
	require.NoError(err)
	require.Equal("Moon Token", p.Name)
	require.Equal("MOON", p.Symbol)
	require.Equal(uint256.NewInt(5), p.Supply.Int())
	require.Equal(uint256.NewInt(5_000_000_000), p.Reserves.Int())
	require.Equal(uint256.NewInt(1_000_000_000), p.SpotPrice.Int())
	require.Equal(uint64(10), p.LaunchBlock)
	require.Equal(uint8(graduation.CommunityRewards), p.Strategy)

	cost, err := cli.RawQuote(ctx, SideBuy, uint256.NewInt(3))
	require.NoError(err)
	require.Equal(uint256.NewInt(3_000_000_000), cost)
	payout, err := cli.RawQuote(ctx, SideSell, uint256.NewInt(5))
	require.NoError(err)
	require.Equal(uint256.NewInt(4_900_000_000), payout)
}

func TestPool(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	c := newTestCurve(t)
	cli := newTestClient(t, c)

	_, err := cli.Pool(ctx)
	require.ErrorContains(err, contract.ErrNotGraduated.Error())

	baseIn := new(uint256.Int).Mul(uint256.NewInt(10_000_000_000_000), uint256.NewInt(1_000_000_000))
	_, err = c.ExecuteBuy(ctx, baseIn, new(uint256.Int))
	require.NoError(err)
	result, err := c.AttemptGraduation(ctx, 11)
	require.NoError(err)

	p, err := cli.Pool(ctx)
	require.NoError(err)
	require.Equal(result.Pool.String(), p.Pool)
	require.Equal("100:1", p.Token)
	require.Equal(curve.BUSD.AssetID().String(), p.Base)
	require.Equal("2000000000000", p.TokenReserve)
	require.Equal("2000000000000", p.BaseReserve)
	require.Equal("2000000000000", p.LPSupply)

	s, err := cli.State(ctx)
	require.NoError(err)
	require.True(s.Graduated)
	require.Equal(p.Pool, s.Pool)
}
