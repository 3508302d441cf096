// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"github.com/holiman/uint256"
	"go.uber.org/atomic"

	avacache "github.com/ava-labs/avalanchego/cache"
)

// PriceCache memoizes PriceAt for a single set of [Params]. Entries are keyed
// by exact supply so a hit always equals recomputation; the cache is never a
// source of truth and may be dropped at any time.
type PriceCache struct {
	prices *avacache.LRU[uint256.Int, uint256.Int]

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewPriceCache(size int) *PriceCache {
	return &PriceCache{
		prices: &avacache.LRU[uint256.Int, uint256.Int]{Size: size},
	}
}

func (c *PriceCache) Get(supply *uint256.Int) (*uint256.Int, bool) {
	price, ok := c.prices.Get(*supply)
	if !ok {
		c.misses.Inc()
		return nil, false
	}
	c.hits.Inc()
	return &price, true
}

func (c *PriceCache) Put(supply, price *uint256.Int) {
	c.prices.Put(*supply, *price)
}

func (c *PriceCache) Len() int {
	return c.prices.Len()
}

// Stats returns the number of lookups that hit and missed.
func (c *PriceCache) Stats() (uint64, uint64) {
	return c.hits.Load(), c.misses.Load()
}
