// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/rpc"
	"github.com/ava-labs/curvevm/utils"
)

func newPoolCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "Show the reserves of the graduated pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.curve.PoolState(cmd.Context())
			if err != nil {
				return err
			}
			utils.Outf("{{blue}}pool %s{{/}} token=%s base=%s\n", p.Pool, p.Token, p.Base)
			utils.Outf("{{yellow}}token reserve:{{/}} %s\n", p.TokenReserve.Dec())
			utils.Outf("{{yellow}}base reserve:{{/}} %s\n", utils.FormatAmount(p.BaseReserve))
			utils.Outf("{{yellow}}lp supply:{{/}} %s\n", p.LPSupply.Dec())
			return nil
		},
	}
}

func newSwapCmd(c *cli) *cobra.Command {
	var minOut string
	cmd := &cobra.Command{
		Use:       "swap [buy|sell] [amount]",
		Short:     "Trade against the graduated pool",
		Long:      "buy spends [amount] base currency on units and sell trades [amount] units for base currency",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{rpc.SideBuy, rpc.SideSell},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.curve.QueryState(ctx)
			if err != nil {
				return err
			}
			var (
				tokenIn   curve.AssetID
				amountIn  *uint256.Int
				minOutAmt *uint256.Int
			)
			side := strings.ToLower(args[0])
			switch side {
			case rpc.SideBuy:
				tokenIn = s.Params.BaseCurrency.AssetID()
				if amountIn, err = utils.ParseAmount(args[1]); err != nil {
					return err
				}
				minOutAmt, err = fixedpoint.FromDecimal(minOut)
			case rpc.SideSell:
				tokenIn = s.Token
				if amountIn, err = fixedpoint.FromDecimal(args[1]); err != nil {
					return err
				}
				minOutAmt, err = utils.ParseAmount(minOut)
			default:
				return fmt.Errorf("%w: %q", rpc.ErrUnknownSide, side)
			}
			if err != nil {
				return err
			}
			out, err := c.curve.Swap(ctx, tokenIn, amountIn, minOutAmt)
			if err != nil {
				return err
			}
			if side == rpc.SideBuy {
				utils.Outf("{{green}}swapped{{/}} %s base {{yellow}}for{{/}} %s units\n", utils.FormatAmount(amountIn), out.Dec())
				return nil
			}
			utils.Outf("{{green}}swapped{{/}} %s units {{yellow}}for{{/}} %s base\n", amountIn.Dec(), utils.FormatAmount(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&minOut, "min-out", "0", "fail if less would be paid out (units for buy, base currency for sell)")
	return cmd
}
