// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/spf13/cobra"

	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/utils"
)

func newGraduateCmd(c *cli) *cobra.Command {
	var block uint64
	cmd := &cobra.Command{
		Use:   "graduate",
		Short: "Move the curve's liquidity into an AMM pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.curve.AttemptGraduation(cmd.Context(), block)
			if err != nil {
				return err
			}
			utils.Outf(
				"{{green}}graduated ({{/}}%s{{green}}){{/}} pool=%s lp=%s tokens=%s base=%s\n",
				res.Kind,
				res.Pool,
				res.LPTokens.Dec(),
				res.PoolTokens.Dec(),
				utils.FormatAmount(res.PoolBase),
			)
			for _, a := range res.Allocations {
				utils.Outf("  {{cyan}}%s:{{/}} %s\n", a.Destination, a.Amount.Dec())
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&block, "block", 0, "current block height")
	return cmd
}

func newStateCmd(c *cli) *cobra.Command {
	var (
		block uint64
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the curve's state and graduation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := c.curve.QueryState(ctx)
			if err != nil {
				return err
			}
			if raw {
				b, err := contract.EncodeState(s)
				if err != nil {
					return err
				}
				payload, err := formatting.Encode(formatting.Hex, b)
				if err != nil {
					return err
				}
				utils.Outf("%s\n", payload)
				return nil
			}
			status, err := c.curve.GraduationStatus(ctx, block)
			if err != nil {
				return err
			}
			utils.Outf("{{blue}}%s (%s){{/}} curve=%s token=%s\n", s.Name, s.Symbol, c.curve.ID(), s.Token)
			utils.Outf("{{yellow}}base currency:{{/}} %s\n", s.Params.BaseCurrency)
			utils.Outf("{{yellow}}supply:{{/}} %s / %s\n", s.Supply.Dec(), s.Params.MaxSupply.Dec())
			utils.Outf("{{yellow}}reserves:{{/}} %s\n", utils.FormatAmount(s.Reserves))
			utils.Outf("{{yellow}}spot price:{{/}} %s\n", utils.FormatAmount(s.SpotPrice))
			utils.Outf(
				"{{yellow}}market cap:{{/}} %s of %s\n",
				utils.FormatAmount(s.MarketCap),
				utils.FormatAmount(s.Params.GraduationThreshold),
			)
			utils.Outf("{{yellow}}strategy:{{/}} %s\n", graduation.Strategy(s.Strategy))
			if s.Graduated {
				utils.Outf(
					"{{green}}graduated{{/}} at block %d pool=%s lp=%s\n",
					s.GraduationBlock,
					s.Pool,
					s.LPBalance.Dec(),
				)
				return nil
			}
			utils.Outf(
				"{{yellow}}blocks since launch:{{/}} %d organic=%t emergency=%t liquidity=%t\n",
				status.BlocksSinceLaunch,
				status.Organic,
				status.Emergency,
				status.LiquiditySufficient,
			)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&block, "block", 0, "current block height")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the borsh encoded state as hex")
	return cmd
}
