// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/rpc"
	"github.com/ava-labs/curvevm/utils"
)

func newQuoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "quote [buy|sell] [quantity]",
		Short:     "Quote the base amount for buying or selling units",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{rpc.SideBuy, rpc.SideSell},
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := fixedpoint.FromDecimal(args[1])
			if err != nil {
				return err
			}
			var amount *uint256.Int
			switch side := strings.ToLower(args[0]); side {
			case rpc.SideBuy:
				amount, err = c.curve.BuyCost(cmd.Context(), quantity)
			case rpc.SideSell:
				amount, err = c.curve.SellReturn(cmd.Context(), quantity)
			default:
				return fmt.Errorf("%w: %q", rpc.ErrUnknownSide, side)
			}
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}%s %s units:{{/}} %s\n", args[0], quantity.Dec(), utils.FormatAmount(amount))
			return nil
		},
	}
}

func newBuyCmd(c *cli) *cobra.Command {
	var minTokens string
	cmd := &cobra.Command{
		Use:   "buy [base amount]",
		Short: "Spend base currency on units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseIn, err := utils.ParseAmount(args[0])
			if err != nil {
				return err
			}
			minOut, err := fixedpoint.FromDecimal(minTokens)
			if err != nil {
				return err
			}
			res, err := c.curve.ExecuteBuy(cmd.Context(), baseIn, minOut)
			if err != nil {
				return err
			}
			utils.Outf(
				"{{green}}bought{{/}} %s units {{yellow}}cost:{{/}} %s {{yellow}}refund:{{/}} %s\n",
				res.Tokens.Dec(),
				utils.FormatAmount(res.Cost),
				utils.FormatAmount(res.Refund),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&minTokens, "min-tokens", "0", "fail if fewer units would be bought")
	return cmd
}

func newSellCmd(c *cli) *cobra.Command {
	var minBase string
	cmd := &cobra.Command{
		Use:   "sell [quantity]",
		Short: "Sell units back to the curve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := fixedpoint.FromDecimal(args[0])
			if err != nil {
				return err
			}
			minOut, err := utils.ParseAmount(minBase)
			if err != nil {
				return err
			}
			payout, err := c.curve.ExecuteSell(cmd.Context(), quantity, minOut)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}sold{{/}} %s units {{yellow}}payout:{{/}} %s\n", quantity.Dec(), utils.FormatAmount(payout))
			return nil
		},
	}
	cmd.Flags().StringVar(&minBase, "min-base", "0", "fail if less base currency would be returned")
	return cmd
}
