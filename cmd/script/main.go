package main

import (
	"context"
	"log"

	"dipbacktest/cmd"
	"dipbacktest/internal/domain"
	"dipbacktest/internal/logger"
	"dipbacktest/internal/util"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// one-shot analysis from the command line, printing the same payload
// the API serves

var (
	ticker             string
	amount             float64
	frequency          string
	timelineMonths     int
	trailingPercentage float64
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare buy-the-dip, DCA and lump-sum for one ticker",
	RunE: func(c *cobra.Command, args []string) error {
		handler, _, err := cmd.InitializeDependencies()
		if err != nil {
			return err
		}

		ctx := context.WithValue(context.Background(), logger.ContextKey, handler.Logger)
		result, err := handler.AnalysisService.Run(ctx, domain.Parameters{
			Ticker:             ticker,
			Amount:             decimal.NewFromFloat(amount),
			Frequency:          domain.Frequency(frequency),
			TimelineMonths:     timelineMonths,
			TrailingPercentage: decimal.NewFromFloat(trailingPercentage),
		})
		if err != nil {
			return err
		}

		util.Pprint(result)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&ticker, "ticker", "", "ticker symbol")
	rootCmd.Flags().Float64Var(&amount, "amount", 100, "amount per purchase")
	rootCmd.Flags().StringVar(&frequency, "frequency", "Weekly", "Daily, Weekly, Bi-Weekly, Monthly or Annual")
	rootCmd.Flags().IntVar(&timelineMonths, "timeline", 12, "analysis timeline in months")
	rootCmd.Flags().Float64Var(&trailingPercentage, "trailing", 5, "trailing buy percentage")
	rootCmd.MarkFlagRequired("ticker")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
