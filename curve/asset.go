// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// AssetID identifies a token or contract on the host by the block and
// transaction index that created it.
type AssetID struct {
	Block uint64 `json:"block"`
	Tx    uint64 `json:"tx"`
}

var EmptyAssetID = AssetID{}

func (a AssetID) String() string {
	return fmt.Sprintf("%d:%d", a.Block, a.Tx)
}

func (a AssetID) IsEmpty() bool {
	return a == EmptyAssetID
}

// ParseAssetID parses the "block:tx" form produced by [AssetID.String].
func ParseAssetID(s string) (AssetID, error) {
	block, tx, ok := strings.Cut(s, ":")
	if !ok {
		return EmptyAssetID, fmt.Errorf("%w: %q", ErrInvalidAssetID, s)
	}
	b, err := strconv.ParseUint(block, 10, 64)
	if err != nil {
		return EmptyAssetID, fmt.Errorf("%w: %w", ErrInvalidAssetID, err)
	}
	t, err := strconv.ParseUint(tx, 10, 64)
	if err != nil {
		return EmptyAssetID, fmt.Errorf("%w: %w", ErrInvalidAssetID, err)
	}
	return AssetID{Block: b, Tx: t}, nil
}

// BaseCurrency selects the external asset backing a curve's reserves.
type BaseCurrency uint8

const (
	BUSD BaseCurrency = iota
	FrBTC
)

var baseCurrencyAssets = map[BaseCurrency]AssetID{
	BUSD:  {Block: 2, Tx: 56801},
	FrBTC: {Block: 32, Tx: 0},
}

func ParseBaseCurrency(v uint64) (BaseCurrency, error) {
	c := BaseCurrency(v)
	if v > uint64(FrBTC) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownBaseCurrency, v)
	}
	return c, nil
}

// AssetID returns the fixed identifier of the currency.
func (c BaseCurrency) AssetID() AssetID {
	return baseCurrencyAssets[c]
}

func (c BaseCurrency) Valid() bool {
	_, ok := baseCurrencyAssets[c]
	return ok
}

func (c BaseCurrency) String() string {
	switch c {
	case BUSD:
		return "busd"
	case FrBTC:
		return "frbtc"
	default:
		return "unknown"
	}
}
