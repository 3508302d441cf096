// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package graduation

import (
	"context"

	"github.com/holiman/uint256"
)

var _ Distributor = (*MockDistributor)(nil)

type MockDistributor struct {
	OnBurn func(ctx context.Context, amount *uint256.Int) error
	OnSend func(ctx context.Context, destination Destination, amount *uint256.Int) error
}

func (m *MockDistributor) Burn(ctx context.Context, amount *uint256.Int) error {
	if m.OnBurn == nil {
		return nil
	}
	return m.OnBurn(ctx, amount)
}

func (m *MockDistributor) Send(ctx context.Context, destination Destination, amount *uint256.Int) error {
	if m.OnSend == nil {
		return nil
	}
	return m.OnSend(ctx, destination, amount)
}
