// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/holiman/uint256"

	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/fixedpoint"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient talks to the service mounted at [uri]. [uri] excludes
// [JSONRPCEndpoint].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) State(ctx context.Context) (*StateReply, error) {
	resp := new(StateReply)
	if err := cli.requester.SendRequest(ctx, Name+".state", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) quote(ctx context.Context, side string, quantity *uint256.Int) (*uint256.Int, error) {
	resp := new(AmountReply)
	err := cli.requester.SendRequest(
		ctx,
		Name+".quote",
		&QuoteArgs{
			Side:     side,
			Quantity: formatAmount(quantity),
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return fixedpoint.FromDecimal(resp.Amount)
}

// BuyCost quotes the base cost of minting [quantity].
func (cli *JSONRPCClient) BuyCost(ctx context.Context, quantity *uint256.Int) (*uint256.Int, error) {
	return cli.quote(ctx, SideBuy, quantity)
}

// SellReturn quotes the base returned for burning [quantity].
func (cli *JSONRPCClient) SellReturn(ctx context.Context, quantity *uint256.Int) (*uint256.Int, error) {
	return cli.quote(ctx, SideSell, quantity)
}

func (cli *JSONRPCClient) SpotPrice(ctx context.Context) (*uint256.Int, error) {
	resp := new(AmountReply)
	if err := cli.requester.SendRequest(ctx, Name+".price", nil, resp); err != nil {
		return nil, err
	}
	return fixedpoint.FromDecimal(resp.Amount)
}

func (cli *JSONRPCClient) GraduationStatus(ctx context.Context, block uint64) (*GraduationStatusReply, error) {
	resp := new(GraduationStatusReply)
	err := cli.requester.SendRequest(
		ctx,
		Name+".graduationStatus",
		&GraduationStatusArgs{Block: block},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Pool(ctx context.Context) (*PoolReply, error) {
	resp := new(PoolReply)
	if err := cli.requester.SendRequest(ctx, Name+".pool", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RawState fetches and decodes the borsh encoded state.
func (cli *JSONRPCClient) RawState(ctx context.Context) (*contract.StatePayload, error) {
	resp := new(RawReply)
	if err := cli.requester.SendRequest(ctx, Name+".rawState", nil, resp); err != nil {
		return nil, err
	}
	b, err := formatting.Decode(formatting.Hex, resp.Payload)
	if err != nil {
		return nil, err
	}
	return contract.DecodeState(b)
}

// RawQuote fetches a quote in its 16 byte encoding and decodes it.
func (cli *JSONRPCClient) RawQuote(ctx context.Context, side string, quantity *uint256.Int) (*uint256.Int, error) {
	resp := new(RawReply)
	err := cli.requester.SendRequest(
		ctx,
		Name+".rawQuote",
		&QuoteArgs{
			Side:     side,
			Quantity: formatAmount(quantity),
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	b, err := formatting.Decode(formatting.Hex, resp.Payload)
	if err != nil {
		return nil, err
	}
	return contract.DecodeAmount(b)
}
