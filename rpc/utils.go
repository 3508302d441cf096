// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/fixedpoint"
)

func NewJSONRPCHandler(
	name string,
	service interface{},
) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	return server, server.RegisterService(service, name)
}

// parseAmount reads a raw amount from a request.
func parseAmount(s string) (*uint256.Int, error) {
	v, err := fixedpoint.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	return v, nil
}

func formatAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}
