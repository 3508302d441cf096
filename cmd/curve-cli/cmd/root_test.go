// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/rpc"
)

func run(dataDir string, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--data-dir", dataDir, "--log-level", "off"}, args...))
	return cmd.Execute()
}

func TestCLI(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	require.NoError(run(dir,
		"init",
		"--name", "Moon Token",
		"--symbol", "MOON",
		"--token", "100:1",
		"--base-price", "1",
		"--growth-bps", "0",
		"--block", "7",
	))
	require.NoError(run(dir, "quote", "buy", "5"))
	require.NoError(run(dir, "buy", "5", "--min-tokens", "5"))
	require.NoError(run(dir, "sell", "2", "--min-base", "1.96"))
	require.NoError(run(dir, "state", "--block", "8"))
	require.ErrorIs(run(dir, "--curve", "other", "quote", "buy", "1"), contract.ErrNotInitialized)
}

func TestCLIPoolTrading(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	require.NoError(run(dir,
		"init",
		"--token", "100:1",
		"--base-price", "1",
		"--growth-bps", "0",
	))
	require.NoError(run(dir, "state", "--raw"))
	require.ErrorIs(run(dir, "pool"), contract.ErrNotGraduated)
	require.ErrorIs(run(dir, "swap", "buy", "1"), contract.ErrNotGraduated)

	require.NoError(run(dir, "buy", "10000000000000"))
	require.NoError(run(dir, "graduate", "--block", "8"))
	require.NoError(run(dir, "pool"))

	require.ErrorIs(run(dir, "swap", "buy", "1", "--min-out", "1000000000"), contract.ErrSlippageExceeded)
	require.NoError(run(dir, "swap", "buy", "1", "--min-out", "996000000"))
	require.NoError(run(dir, "swap", "sell", "1000"))
	require.ErrorIs(run(dir, "swap", "hold", "1"), rpc.ErrUnknownSide)
	require.ErrorIs(run(dir, "buy", "1"), graduation.ErrAlreadyGraduated)
}

func TestCLIErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "uninitialized",
			args: []string{"quote", "buy", "1"},
			err:  contract.ErrNotInitialized,
		},
		{
			name: "bad token",
			args: []string{"init", "--token", "100"},
			err:  curve.ErrInvalidAssetID,
		},
		{
			name: "bad currency",
			args: []string{"init", "--token", "100:1", "--base-currency", "2"},
			err:  curve.ErrUnknownBaseCurrency,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, run(t.TempDir(), tt.args...), tt.err)
		})
	}
}
