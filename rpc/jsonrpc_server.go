// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/holiman/uint256"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/graduation"
)

type JSONRPCServer struct {
	backend Backend

	requests atomic.Uint64
}

func NewJSONRPCServer(backend Backend) *JSONRPCServer {
	return &JSONRPCServer{backend: backend}
}

type PingReply struct {
	Success  bool   `json:"success"`
	Requests uint64 `json:"requests"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.backend.Logger().Info("ping")
	reply.Success = true
	reply.Requests = j.requests.Inc()
	return nil
}

type StateReply struct {
	CurveID             ids.ID `json:"curveId"`
	Name                string `json:"name"`
	Symbol              string `json:"symbol"`
	Token               string `json:"token"`
	BaseCurrency        string `json:"baseCurrency"`
	BasePrice           string `json:"basePrice"`
	GrowthRateBps       uint64 `json:"growthRateBps"`
	GraduationThreshold string `json:"graduationThreshold"`
	MaxSupply           string `json:"maxSupply"`
	Supply              string `json:"supply"`
	Reserves            string `json:"reserves"`
	SpotPrice           string `json:"spotPrice"`
	MarketCap           string `json:"marketCap"`
	Graduated           bool   `json:"graduated"`
	Pool                string `json:"pool"`
	LPBalance           string `json:"lpBalance"`
	LaunchBlock         uint64 `json:"launchBlock"`
	GraduationBlock     uint64 `json:"graduationBlock"`
	Strategy            string `json:"strategy"`
}

func (j *JSONRPCServer) State(req *http.Request, _ *struct{}, reply *StateReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.State")
	defer span.End()
	j.requests.Inc()

	c := j.backend.Curve()
	s, err := c.QueryState(ctx)
	if err != nil {
		return err
	}
	reply.CurveID = c.ID()
	reply.Name = s.Name
	reply.Symbol = s.Symbol
	reply.Token = s.Token.String()
	reply.BaseCurrency = s.Params.BaseCurrency.String()
	reply.BasePrice = formatAmount(s.Params.BasePrice)
	reply.GrowthRateBps = s.Params.GrowthRateBps
	reply.GraduationThreshold = formatAmount(s.Params.GraduationThreshold)
	reply.MaxSupply = formatAmount(s.Params.MaxSupply)
	reply.Supply = formatAmount(s.Supply)
	reply.Reserves = formatAmount(s.Reserves)
	reply.SpotPrice = formatAmount(s.SpotPrice)
	reply.MarketCap = formatAmount(s.MarketCap)
	reply.Graduated = s.Graduated
	if !s.Pool.IsEmpty() {
		reply.Pool = s.Pool.String()
	}
	reply.LPBalance = formatAmount(s.LPBalance)
	reply.LaunchBlock = s.LaunchBlock
	reply.GraduationBlock = s.GraduationBlock
	reply.Strategy = graduation.Strategy(s.Strategy).String()
	return nil
}

type QuoteArgs struct {
	Side     string `json:"side"`
	Quantity string `json:"quantity"`
}

type AmountReply struct {
	Amount string `json:"amount"`
}

// Quote prices buying or selling a quantity at the current supply.
func (j *JSONRPCServer) Quote(req *http.Request, args *QuoteArgs, reply *AmountReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Quote")
	defer span.End()
	j.requests.Inc()

	amount, err := j.quote(ctx, args)
	if err != nil {
		return err
	}
	reply.Amount = formatAmount(amount)
	return nil
}

func (j *JSONRPCServer) quote(ctx context.Context, args *QuoteArgs) (*uint256.Int, error) {
	quantity, err := parseAmount(args.Quantity)
	if err != nil {
		return nil, err
	}
	c := j.backend.Curve()
	var amount *uint256.Int
	switch strings.ToLower(args.Side) {
	case SideBuy:
		amount, err = c.BuyCost(ctx, quantity)
	case SideSell:
		amount, err = c.SellReturn(ctx, quantity)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, args.Side)
	}
	if err != nil {
		j.backend.Logger().Debug("quote failed",
			zap.String("side", args.Side),
			zap.String("quantity", args.Quantity),
			zap.Error(err),
		)
		return nil, err
	}
	return amount, nil
}

func (j *JSONRPCServer) Price(req *http.Request, _ *struct{}, reply *AmountReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Price")
	defer span.End()
	j.requests.Inc()

	price, err := j.backend.Curve().SpotPrice(ctx)
	if err != nil {
		return err
	}
	reply.Amount = formatAmount(price)
	return nil
}

type GraduationStatusArgs struct {
	Block uint64 `json:"block"`
}

type GraduationStatusReply struct {
	Graduated           bool   `json:"graduated"`
	Organic             bool   `json:"organic"`
	Emergency           bool   `json:"emergency"`
	LiquiditySufficient bool   `json:"liquiditySufficient"`
	MarketCap           string `json:"marketCap"`
	BlocksSinceLaunch   uint64 `json:"blocksSinceLaunch"`
}

func (j *JSONRPCServer) GraduationStatus(
	req *http.Request,
	args *GraduationStatusArgs,
	reply *GraduationStatusReply,
) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.GraduationStatus")
	defer span.End()
	j.requests.Inc()

	status, err := j.backend.Curve().GraduationStatus(ctx, args.Block)
	if err != nil {
		return err
	}
	reply.Graduated = status.Graduated
	reply.Organic = status.Organic
	reply.Emergency = status.Emergency
	reply.LiquiditySufficient = status.LiquiditySufficient
	reply.MarketCap = formatAmount(status.MarketCap)
	reply.BlocksSinceLaunch = status.BlocksSinceLaunch
	return nil
}

type PoolReply struct {
	Pool         string `json:"pool"`
	Token        string `json:"token"`
	Base         string `json:"base"`
	TokenReserve string `json:"tokenReserve"`
	BaseReserve  string `json:"baseReserve"`
	LPSupply     string `json:"lpSupply"`
}

// Pool returns the reserves of the pool a graduated curve trades on.
func (j *JSONRPCServer) Pool(req *http.Request, _ *struct{}, reply *PoolReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Pool")
	defer span.End()
	j.requests.Inc()

	p, err := j.backend.Curve().PoolState(ctx)
	if err != nil {
		return err
	}
	reply.Pool = p.Pool.String()
	reply.Token = p.Token.String()
	reply.Base = p.Base.String()
	reply.TokenReserve = formatAmount(p.TokenReserve)
	reply.BaseReserve = formatAmount(p.BaseReserve)
	reply.LPSupply = formatAmount(p.LPSupply)
	return nil
}

// RawReply carries a binary payload as checksummed hex.
type RawReply struct {
	Payload string `json:"payload"`
}

// RawState returns the borsh encoding of the curve's state.
func (j *JSONRPCServer) RawState(req *http.Request, _ *struct{}, reply *RawReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.RawState")
	defer span.End()
	j.requests.Inc()

	s, err := j.backend.Curve().QueryState(ctx)
	if err != nil {
		return err
	}
	b, err := contract.EncodeState(s)
	if err != nil {
		return err
	}
	reply.Payload, err = formatting.Encode(formatting.Hex, b)
	return err
}

// RawQuote returns a quote as a 16 byte little-endian amount.
func (j *JSONRPCServer) RawQuote(req *http.Request, args *QuoteArgs, reply *RawReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.RawQuote")
	defer span.End()
	j.requests.Inc()

	amount, err := j.quote(ctx, args)
	if err != nil {
		return err
	}
	b, err := contract.EncodeAmount(amount)
	if err != nil {
		return err
	}
	reply.Payload, err = formatting.Encode(formatting.Hex, b)
	return err
}
