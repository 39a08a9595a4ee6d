package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"tickscope/internal/config"
	"tickscope/internal/pricing"
)

func runPrice(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPrice(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	switch {
	case cfg.SqrtPriceX96 != "":
		sqrt, ok := new(big.Int).SetString(cfg.SqrtPriceX96, 10)
		if !ok {
			return fmt.Errorf("invalid sqrt-price-x96: %s", cfg.SqrtPriceX96)
		}
		price, err := pricing.SqrtPriceX96ToPrice(sqrt, cfg.Decimals0, cfg.Decimals1, cfg.QuoteToken0)
		if err != nil {
			return err
		}
		fmt.Printf("sqrtPriceX96 %s -> price %s\n", sqrt, FormatPrice(price))

	case cfg.TickSet:
		price := pricing.TickToQuotePrice(cfg.Tick, cfg.Decimals0, cfg.Decimals1, cfg.QuoteToken0)
		fmt.Printf("tick %d -> raw ratio %s, price %s\n",
			cfg.Tick, FormatPrice(pricing.TickToPrice(cfg.Tick)), FormatPrice(price))

	case cfg.PriceSet:
		tick, err := pricing.PriceToTick(cfg.Price)
		if err != nil {
			return err
		}
		sqrt, err := pricing.PriceToSqrtPriceX96(cfg.Price, cfg.Decimals0, cfg.Decimals1, cfg.QuoteToken0)
		if err != nil {
			return err
		}
		fmt.Printf("price %s -> tick %d, sqrtPriceX96 %s\n", FormatPrice(cfg.Price), tick, sqrt)

	default:
		return fmt.Errorf("one of --tick, --price, or --sqrt-price-x96 is required")
	}

	return nil
}
