// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/curve"
	"github.com/ava-labs/curvevm/fixedpoint"
	"github.com/ava-labs/curvevm/graduation"
	"github.com/ava-labs/curvevm/utils"
)

func newInitCmd(c *cli) *cobra.Command {
	var (
		name      string
		symbol    string
		token     string
		basePrice string
		growthBps uint64
		threshold string
		maxSupply string
		currency  uint64
		strategy  uint64
		block     uint64
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokenID, err := curve.ParseAssetID(token)
			if err != nil {
				return err
			}
			baseCurrency, err := curve.ParseBaseCurrency(currency)
			if err != nil {
				return err
			}
			lpStrategy, err := graduation.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			price, err := utils.ParseAmount(basePrice)
			if err != nil {
				return err
			}
			graduationThreshold, err := utils.ParseAmount(threshold)
			if err != nil {
				return err
			}
			supply, err := fixedpoint.FromDecimal(maxSupply)
			if err != nil {
				return err
			}
			params := &curve.Params{
				BasePrice:           price,
				GrowthRateBps:       growthBps,
				GraduationThreshold: graduationThreshold,
				BaseCurrency:        baseCurrency,
				MaxSupply:           supply,
			}
			if err := c.curve.Initialize(cmd.Context(), &contract.InitArgs{
				Name:        name,
				Symbol:      symbol,
				Token:       tokenID,
				Params:      params,
				Strategy:    lpStrategy,
				LaunchBlock: block,
			}); err != nil {
				return err
			}
			utils.Outf(
				"{{green}}initialized{{/}} %s {{yellow}}(%s){{/}} curve=%s token=%s base=%s strategy=%s\n",
				name,
				symbol,
				c.curve.ID(),
				tokenID,
				baseCurrency,
				lpStrategy,
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "token name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&token, "token", "", "token asset id (block:tx)")
	cmd.Flags().StringVar(&basePrice, "base-price", "0.000001", "price of the first unit in base currency")
	cmd.Flags().Uint64Var(&growthBps, "growth-bps", 1, "per unit price growth in basis points")
	cmd.Flags().StringVar(&threshold, "threshold", "1000000", "graduation market cap in base currency")
	cmd.Flags().StringVar(&maxSupply, "max-supply", "1000000000000000", "maximum supply in units")
	cmd.Flags().Uint64Var(&currency, "base-currency", uint64(curve.BUSD), "base currency (0 = busd, 1 = frbtc)")
	cmd.Flags().Uint64Var(&strategy, "strategy", uint64(graduation.FullBurn), "lp strategy (0 = full burn, 1 = community, 2 = creator, 3 = dao)")
	cmd.Flags().Uint64Var(&block, "block", 0, "launch block height")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
