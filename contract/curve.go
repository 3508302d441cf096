// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/state"
	"github.com/ava-labs/curvevm/storage"
	"github.com/ava-labs/curvevm/tstate"
)

// Exchange is the AMM a curve graduates into and keeps trading on after.
type Exchange interface {
	graduation.AMM

	// Reserves returns the pool's reserves in pair order and its LP supply.
	Reserves(ctx context.Context, pool curve.AssetID) (*uint256.Int, *uint256.Int, *uint256.Int, error)

	// Swap sells [amountIn] of [tokenIn] into [pool] and returns the amount
	// of the other token paid out.
	Swap(ctx context.Context, pool, tokenIn curve.AssetID, amountIn *uint256.Int) (*uint256.Int, error)
}

// AMMFactory binds an Exchange to the view a transaction writes through.
type AMMFactory func(mu state.Mutable) (Exchange, error)

type Options struct {
	Integrator     curve.IntegratorConfig
	Criteria       graduation.Criteria
	PriceCacheSize int
	Factories      map[curve.BaseCurrency]curve.AssetID
	NewAMM         AMMFactory
}

// InitArgs are supplied once when a curve is created.
type InitArgs struct {
	Name        string
	Symbol      string
	Token       curve.AssetID
	Params      *curve.Params
	Strategy    graduation.Strategy
	LaunchBlock uint64
}

type BuyResult struct {
	Tokens *uint256.Int
	Cost   *uint256.Int
	Refund *uint256.Int
}

// State is a read-only snapshot of a curve.
type State struct {
	Name      string
	Symbol    string
	Params    *curve.Params
	SpotPrice *uint256.Int
	MarketCap *uint256.Int

	*storage.CurveState
}

type GraduationStatus struct {
	Graduated           bool
	Organic             bool
	Emergency           bool
	LiquiditySufficient bool
	MarketCap           *uint256.Int
	BlocksSinceLaunch   uint64
}

// Curve is one bonding curve instance. Mutating calls are serialized and
// each one either commits all of its writes or none of them.
type Curve struct {
	log     logging.Logger
	tracer  trace.Tracer
	metrics *Metrics
	opts    Options

	id ids.ID
	db state.Mutable

	l         sync.Mutex
	pricer    *curve.Pricer
	cache     *curve.PriceCache
	evaluator *graduation.Evaluator
}

// New opens the curve [id] in [db]. Params written by an earlier Initialize
// are loaded so a reopened curve prices identically.
func New(
	ctx context.Context,
	log logging.Logger,
	tracer trace.Tracer,
	metrics *Metrics,
	db state.Mutable,
	id ids.ID,
	opts Options,
) (*Curve, error) {
	if err := opts.Integrator.Verify(); err != nil {
		return nil, err
	}
	if err := opts.Criteria.Verify(); err != nil {
		return nil, err
	}
	c := &Curve{
		log:     log,
		tracer:  tracer,
		metrics: metrics,
		opts:    opts,
		id:      id,
		db:      db,
	}
	params, err := storage.GetParams(ctx, db, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return c, nil
	case err != nil:
		return nil, err
	}
	c.load(params)
	return c, nil
}

func (c *Curve) ID() ids.ID {
	return c.id
}

func (c *Curve) load(params *curve.Params) {
	if c.opts.PriceCacheSize > 0 {
		c.cache = curve.NewPriceCache(c.opts.PriceCacheSize)
	}
	c.pricer = curve.NewPricer(params, c.opts.Integrator, c.cache)
	c.evaluator = graduation.NewEvaluator(c.pricer, c.opts.Criteria)
}

func (c *Curve) Initialize(ctx context.Context, args *InitArgs) error {
	ctx, span := c.tracer.Start(ctx, "Curve.Initialize")
	defer span.End()

	c.l.Lock()
	defer c.l.Unlock()

	if c.pricer != nil {
		return ErrAlreadyInitialized
	}
	if err := args.Params.Verify(); err != nil {
		return err
	}
	if _, err := graduation.ParseStrategy(uint64(args.Strategy)); err != nil {
		return err
	}
	if args.Token.IsEmpty() {
		return fmt.Errorf("%w: empty token", curve.ErrInvalidAssetID)
	}

	view := tstate.New(c.db)
	if err := storage.SetParams(ctx, view, c.id, args.Params); err != nil {
		return err
	}
	if err := storage.SetMetadata(ctx, view, c.id, args.Name, args.Symbol); err != nil {
		return err
	}
	if err := storage.SetToken(ctx, view, c.id, args.Token); err != nil {
		return err
	}
	if err := storage.SetSupply(ctx, view, c.id, fixedpoint.Zero()); err != nil {
		return err
	}
	if err := storage.SetReserves(ctx, view, c.id, fixedpoint.Zero()); err != nil {
		return err
	}
	if err := storage.SetLaunchBlock(ctx, view, c.id, args.LaunchBlock); err != nil {
		return err
	}
	if err := storage.SetStrategy(ctx, view, c.id, uint8(args.Strategy)); err != nil {
		return err
	}
	if err := view.Commit(ctx); err != nil {
		return err
	}
	c.load(args.Params)
	c.log.Info("curve initialized",
		zap.Stringer("curveID", c.id),
		zap.String("symbol", args.Symbol),
		zap.Stringer("token", args.Token),
		zap.Stringer("baseCurrency", args.Params.BaseCurrency),
		zap.Stringer("strategy", args.Strategy),
	)
	return nil
}

func (c *Curve) requirePricer() (*curve.Pricer, error) {
	if c.pricer == nil {
		return nil, ErrNotInitialized
	}
	return c.pricer, nil
}

// BuyCost quotes minting [quantity] at the current supply.
func (c *Curve) BuyCost(ctx context.Context, quantity *uint256.Int) (*uint256.Int, error) {
	c.l.Lock()
	defer c.l.Unlock()

	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	supply, err := storage.GetSupply(ctx, c.db, c.id)
	if err != nil {
		return nil, err
	}
	return pricer.BuyCost(supply, quantity)
}

// SellReturn quotes burning [quantity] at the current supply.
func (c *Curve) SellReturn(ctx context.Context, quantity *uint256.Int) (*uint256.Int, error) {
	c.l.Lock()
	defer c.l.Unlock()

	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	supply, err := storage.GetSupply(ctx, c.db, c.id)
	if err != nil {
		return nil, err
	}
	return pricer.SellReturn(supply, quantity)
}

// SpotPrice returns the price of the next unit.
func (c *Curve) SpotPrice(ctx context.Context) (*uint256.Int, error) {
	c.l.Lock()
	defer c.l.Unlock()

	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	supply, err := storage.GetSupply(ctx, c.db, c.id)
	if err != nil {
		return nil, err
	}
	return pricer.PriceAt(supply)
}

// ExecuteBuy spends at most [baseIn] on as many tokens as it buys and
// refunds the rest. It fails if fewer than [minTokensOut] tokens would be
// minted.
func (c *Curve) ExecuteBuy(ctx context.Context, baseIn, minTokensOut *uint256.Int) (*BuyResult, error) {
	ctx, span := c.tracer.Start(ctx, "Curve.ExecuteBuy")
	defer span.End()

	start := time.Now()
	c.l.Lock()
	defer c.l.Unlock()

	result, err := c.executeBuy(ctx, baseIn, minTokensOut)
	if err != nil {
		c.metrics.rejectedTrades.Inc()
		return nil, err
	}
	c.metrics.buys.Inc()
	c.metrics.buyExecute.Observe(float64(time.Since(start)))
	c.log.Debug("executed buy",
		zap.Stringer("curveID", c.id),
		zap.String("tokens", result.Tokens.Dec()),
		zap.String("cost", result.Cost.Dec()),
		zap.String("refund", result.Refund.Dec()),
	)
	return result, nil
}

func (c *Curve) executeBuy(ctx context.Context, baseIn, minTokensOut *uint256.Int) (*BuyResult, error) {
	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	view := tstate.New(c.db)
	s, err := storage.GetCurveState(ctx, view, c.id)
	if err != nil {
		return nil, err
	}
	if s.Graduated {
		return nil, graduation.ErrAlreadyGraduated
	}
	if !s.Supply.Lt(pricer.Params().MaxSupply) {
		return nil, curve.ErrSupplyCapExceeded
	}
	tokens, cost, err := pricer.TokensForBase(s.Supply, baseIn)
	if err != nil {
		return nil, err
	}
	if tokens.Lt(minTokensOut) {
		return nil, fmt.Errorf("%w: got %s tokens, wanted at least %s", ErrSlippageExceeded, tokens.Dec(), minTokensOut.Dec())
	}
	supply, err := fixedpoint.Add(s.Supply, tokens)
	if err != nil {
		return nil, err
	}
	reserves, err := fixedpoint.Add(s.Reserves, cost)
	if err != nil {
		return nil, err
	}
	if err := c.settle(ctx, view, supply, reserves); err != nil {
		return nil, err
	}
	return &BuyResult{
		Tokens: tokens,
		Cost:   cost,
		Refund: new(uint256.Int).Sub(baseIn, cost),
	}, nil
}

// ExecuteSell burns [quantity] tokens and returns the discounted payout. It
// fails if the payout is below [minBaseOut].
func (c *Curve) ExecuteSell(ctx context.Context, quantity, minBaseOut *uint256.Int) (*uint256.Int, error) {
	ctx, span := c.tracer.Start(ctx, "Curve.ExecuteSell")
	defer span.End()

	start := time.Now()
	c.l.Lock()
	defer c.l.Unlock()

	payout, err := c.executeSell(ctx, quantity, minBaseOut)
	if err != nil {
		c.metrics.rejectedTrades.Inc()
		return nil, err
	}
	c.metrics.sells.Inc()
	c.metrics.sellExecute.Observe(float64(time.Since(start)))
	c.log.Debug("executed sell",
		zap.Stringer("curveID", c.id),
		zap.String("tokens", quantity.Dec()),
		zap.String("payout", payout.Dec()),
	)
	return payout, nil
}

func (c *Curve) executeSell(ctx context.Context, quantity, minBaseOut *uint256.Int) (*uint256.Int, error) {
	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	view := tstate.New(c.db)
	s, err := storage.GetCurveState(ctx, view, c.id)
	if err != nil {
		return nil, err
	}
	if s.Graduated {
		return nil, graduation.ErrAlreadyGraduated
	}
	payout, err := pricer.SellReturn(s.Supply, quantity)
	if err != nil {
		return nil, err
	}
	if payout.Lt(minBaseOut) {
		return nil, fmt.Errorf("%w: got %s base, wanted at least %s", ErrSlippageExceeded, payout.Dec(), minBaseOut.Dec())
	}
	if payout.Gt(s.Reserves) {
		return nil, fmt.Errorf("%w: payout %s exceeds %s", ErrInsufficientReserves, payout.Dec(), s.Reserves.Dec())
	}
	supply := new(uint256.Int).Sub(s.Supply, quantity)
	reserves := new(uint256.Int).Sub(s.Reserves, payout)
	if err := c.settle(ctx, view, supply, reserves); err != nil {
		return nil, err
	}
	return payout, nil
}

// settle writes supply and reserves together.
func (c *Curve) settle(ctx context.Context, view *tstate.View, supply, reserves *uint256.Int) error {
	if err := storage.SetSupply(ctx, view, c.id, supply); err != nil {
		return err
	}
	if err := storage.SetReserves(ctx, view, c.id, reserves); err != nil {
		return err
	}
	if err := view.Commit(ctx); err != nil {
		return err
	}
	c.metrics.setState(supply, reserves)
	if c.cache != nil {
		hits, misses := c.cache.Stats()
		c.metrics.cacheHits.Set(float64(hits))
		c.metrics.cacheMisses.Set(float64(misses))
	}
	return nil
}

// AttemptGraduation graduates the curve at [currentBlock] if it qualifies.
// Nothing is written unless every step succeeds.
func (c *Curve) AttemptGraduation(ctx context.Context, currentBlock uint64) (*graduation.Result, error) {
	ctx, span := c.tracer.Start(ctx, "Curve.AttemptGraduation")
	defer span.End()

	start := time.Now()
	c.l.Lock()
	defer c.l.Unlock()

	result, err := c.attemptGraduation(ctx, currentBlock)
	if err != nil {
		c.metrics.failedGraduations.Inc()
		return nil, err
	}
	c.metrics.graduations.Inc()
	c.metrics.graduationExecute.Observe(float64(time.Since(start)))
	return result, nil
}

func (c *Curve) attemptGraduation(ctx context.Context, currentBlock uint64) (*graduation.Result, error) {
	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	baseCurrency := pricer.Params().BaseCurrency
	factory, ok := c.opts.Factories[baseCurrency]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingFactory, baseCurrency)
	}

	view := tstate.New(c.db)
	amm, err := c.opts.NewAMM(view)
	if err != nil {
		return nil, err
	}
	graduator := graduation.New(c.log, c.tracer, c.evaluator, factory)
	result, err := graduator.Execute(ctx, view, amm, graduation.NewStateDistributor(view, c.id), c.id, currentBlock)
	if err != nil {
		return nil, err
	}
	if err := view.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// GraduationStatus reports which graduation criteria hold at [currentBlock].
func (c *Curve) GraduationStatus(ctx context.Context, currentBlock uint64) (*GraduationStatus, error) {
	c.l.Lock()
	defer c.l.Unlock()

	if _, err := c.requirePricer(); err != nil {
		return nil, err
	}
	s, err := storage.GetCurveState(ctx, c.db, c.id)
	if err != nil {
		return nil, err
	}
	organic, err := c.evaluator.MeetsOrganic(s.Supply, s.Reserves)
	if err != nil {
		return nil, err
	}
	sufficient, err := c.evaluator.LiquiditySufficient(s.Supply, s.Reserves)
	if err != nil {
		return nil, err
	}
	marketCap, err := c.pricer.MarketCap(s.Supply)
	if err != nil {
		return nil, err
	}
	var age uint64
	if currentBlock > s.LaunchBlock {
		age = currentBlock - s.LaunchBlock
	}
	return &GraduationStatus{
		Graduated:           s.Graduated,
		Organic:             organic,
		Emergency:           c.evaluator.MeetsEmergency(s.LaunchBlock, currentBlock, s.Supply, s.Reserves),
		LiquiditySufficient: sufficient,
		MarketCap:           marketCap,
		BlocksSinceLaunch:   age,
	}, nil
}

// QueryState returns the curve's parameters and current state.
func (c *Curve) QueryState(ctx context.Context) (*State, error) {
	c.l.Lock()
	defer c.l.Unlock()

	pricer, err := c.requirePricer()
	if err != nil {
		return nil, err
	}
	s, err := storage.GetCurveState(ctx, c.db, c.id)
	if err != nil {
		return nil, err
	}
	name, symbol, err := storage.GetMetadata(ctx, c.db, c.id)
	if err != nil {
		return nil, err
	}
	price, err := pricer.PriceAt(s.Supply)
	if err != nil {
		return nil, err
	}
	return &State{
		Name:       name,
		Symbol:     symbol,
		Params:     pricer.Params(),
		SpotPrice:  price,
		MarketCap:  curve.MarketCap(s.Supply, price),
		CurveState: s,
	}, nil
}
