// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"math/big"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	buys              prometheus.Counter
	sells             prometheus.Counter
	rejectedTrades    prometheus.Counter
	swaps             prometheus.Counter
	graduations       prometheus.Counter
	failedGraduations prometheus.Counter
	supply            prometheus.Gauge
	reserves          prometheus.Gauge
	cacheHits         prometheus.Gauge
	cacheMisses       prometheus.Gauge
	buyExecute        metric.Averager
	sellExecute       metric.Averager
	graduationExecute metric.Averager
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	buyExecute, err := metric.NewAverager(
		"curve_buy_execute",
		"time spent executing buys",
		r,
	)
	if err != nil {
		return nil, err
	}
	sellExecute, err := metric.NewAverager(
		"curve_sell_execute",
		"time spent executing sells",
		r,
	)
	if err != nil {
		return nil, err
	}
	graduationExecute, err := metric.NewAverager(
		"curve_graduation_execute",
		"time spent executing graduation attempts",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &Metrics{
		buys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "curve",
			Name:      "buys",
			Help:      "number of executed buys",
		}),
		sells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "curve",
			Name:      "sells",
			Help:      "number of executed sells",
		}),
		rejectedTrades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "curve",
			Name:      "rejected_trades",
			Help:      "number of buys and sells that returned an error",
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "curve",
			Name:      "pool_swaps",
			Help:      "number of swaps against the graduated pool",
		}),
		graduations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "curve",
			Name:      "graduations",
			Help:      "number of successful graduations",
		}),
		failedGraduations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "curve",
			Name:      "failed_graduations",
			Help:      "number of graduation attempts that were rolled back",
		}),
		supply: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "curve",
			Name:      "supply",
			Help:      "current token supply",
		}),
		reserves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "curve",
			Name:      "reserves",
			Help:      "current base reserves",
		}),
		cacheHits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "curve",
			Name:      "price_cache_hits",
			Help:      "price cache lookups that hit",
		}),
		cacheMisses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "curve",
			Name:      "price_cache_misses",
			Help:      "price cache lookups that missed",
		}),
		buyExecute:        buyExecute,
		sellExecute:       sellExecute,
		graduationExecute: graduationExecute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.buys),
		r.Register(m.sells),
		r.Register(m.rejectedTrades),
		r.Register(m.swaps),
		r.Register(m.graduations),
		r.Register(m.failedGraduations),
		r.Register(m.supply),
		r.Register(m.reserves),
		r.Register(m.cacheHits),
		r.Register(m.cacheMisses),
	)
	return m, errs.Err
}

func (m *Metrics) setState(supply, reserves *uint256.Int) {
	m.supply.Set(toFloat(supply))
	m.reserves.Set(toFloat(reserves))
}

func toFloat(v *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}
