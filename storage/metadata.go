// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/curvevm/state"
)

const (
	MaxNameLen   = 64
	MaxSymbolLen = 16
)

// [metadataPrefix] + [curveID]
func MetadataKey(curveID ids.ID) []byte {
	return curveKey(metadataPrefix, curveID)
}

func SetMetadata(ctx context.Context, mu state.Mutable, curveID ids.ID, name, symbol string) error {
	if len(name) > MaxNameLen || len(symbol) > MaxSymbolLen {
		return ErrInvalidValue
	}
	p := newPacker(wrappers.ShortLen*2 + len(name) + len(symbol))
	p.PackStr(name)
	p.PackStr(symbol)
	if p.Err != nil {
		return p.Err
	}
	return mu.Insert(ctx, MetadataKey(curveID), p.Bytes)
}

// GetMetadata returns the token's name and symbol.
func GetMetadata(ctx context.Context, im state.Immutable, curveID ids.ID) (string, string, error) {
	v, err := im.GetValue(ctx, MetadataKey(curveID))
	if err != nil {
		return "", "", err
	}
	p := &wrappers.Packer{Bytes: v}
	name := p.UnpackStr()
	symbol := p.UnpackStr()
	if p.Err != nil {
		return "", "", p.Err
	}
	if p.Offset != len(v) {
		return "", "", ErrInvalidValue
	}
	return name, symbol, nil
}
