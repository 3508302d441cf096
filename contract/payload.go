// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/near/borsh-go"

	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/fixedpoint"
)

// Amount is a 128-bit little-endian integer, the host's encoding for quote
// responses.
type Amount [consts.Uint128Len]byte

func NewAmount(v *uint256.Int) (Amount, error) {
	var a Amount
	if !fixedpoint.Fits(v) {
		return a, fmt.Errorf("%w: amount wider than 128 bits", ErrInvalidPayload)
	}
	b := v.Bytes32()
	for i := range a {
		a[i] = b[len(b)-1-i]
	}
	return a, nil
}

func (a Amount) Int() *uint256.Int {
	var b [consts.Uint128Len]byte
	for i := range a {
		b[i] = a[len(a)-1-i]
	}
	return new(uint256.Int).SetBytes(b[:])
}

// EncodeAmount returns the 16 byte payload for [v].
func EncodeAmount(v *uint256.Int) ([]byte, error) {
	a, err := NewAmount(v)
	if err != nil {
		return nil, err
	}
	return a[:], nil
}

func DecodeAmount(b []byte) (*uint256.Int, error) {
	if len(b) != consts.Uint128Len {
		return nil, fmt.Errorf("%w: amount is %d bytes", ErrInvalidPayload, len(b))
	}
	var a Amount
	copy(a[:], b)
	return a.Int(), nil
}

// StatePayload is the borsh encoding of [State] returned to the host.
type StatePayload struct {
	Name                string
	Symbol              string
	BasePrice           Amount
	GrowthRateBps       uint64
	GraduationThreshold Amount
	BaseCurrency        uint8
	MaxSupply           Amount
	Supply              Amount
	Reserves            Amount
	SpotPrice           Amount
	Graduated           bool
	PoolBlock           uint64
	PoolTx              uint64
	LPBalance           Amount
	LaunchBlock         uint64
	GraduationBlock     uint64
	Strategy            uint8
}

func EncodeState(s *State) ([]byte, error) {
	p := &StatePayload{
		Name:          s.Name,
		Symbol:        s.Symbol,
		GrowthRateBps: s.Params.GrowthRateBps,
		BaseCurrency:  uint8(s.Params.BaseCurrency),
		Graduated:     s.Graduated,
		PoolBlock:     s.Pool.Block,
		PoolTx:        s.Pool.Tx,
		LaunchBlock:   s.LaunchBlock,

		GraduationBlock: s.GraduationBlock,
		Strategy:        s.Strategy,
	}
	for _, f := range []struct {
		dst *Amount
		src *uint256.Int
	}{
		{&p.BasePrice, s.Params.BasePrice},
		{&p.GraduationThreshold, s.Params.GraduationThreshold},
		{&p.MaxSupply, s.Params.MaxSupply},
		{&p.Supply, s.Supply},
		{&p.Reserves, s.Reserves},
		{&p.SpotPrice, s.SpotPrice},
		{&p.LPBalance, s.LPBalance},
	} {
		a, err := NewAmount(f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = a
	}
	return borsh.Serialize(*p)
}

func DecodeState(b []byte) (*StatePayload, error) {
	p := &StatePayload{}
	if err := borsh.Deserialize(p, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return p, nil
}
