package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"forex-trading/internal/dto"
	"forex-trading/internal/export"
)

var (
	backtestPairs     string
	backtestTimeframe string
	backtestModel     string
	backtestStart     string
	backtestEnd       string
	backtestBalance   float64
	backtestLeverage  int
	backtestRisk      float64
	backtestExport    string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a trading simulation over historical bars",
	Run:   runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestPairs, "pairs", "EURUSD", "comma-separated currency pairs")
	backtestCmd.Flags().StringVar(&backtestTimeframe, "timeframe", "H1", "bar timeframe (M1..D1)")
	backtestCmd.Flags().StringVar(&backtestModel, "model", "cnn", "model type (cnn, rnn, tcn)")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date (YYYY-MM-DD)")
	backtestCmd.Flags().Float64Var(&backtestBalance, "balance", 0, "initial balance (0 = config default)")
	backtestCmd.Flags().IntVar(&backtestLeverage, "leverage", 0, "leverage (0 = config default)")
	backtestCmd.Flags().Float64Var(&backtestRisk, "risk", 0, "risk factor per trade (0 = config default)")
	backtestCmd.Flags().StringVar(&backtestExport, "export", "", "write the trade ledger to this CSV file")
}

func runBacktest(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	start, end, err := parseDateRange(backtestStart, backtestEnd)
	if err != nil {
		log.Fatalf("Invalid date range: %v", err)
	}

	var reqs []dto.BacktestRequest
	for _, pair := range strings.Split(backtestPairs, ",") {
		reqs = append(reqs, dto.BacktestRequest{
			CurrencyPair:   strings.TrimSpace(strings.ToUpper(pair)),
			Timeframe:      backtestTimeframe,
			ModelType:      backtestModel,
			StartDate:      start,
			EndDate:        end,
			InitialBalance: backtestBalance,
			Leverage:       backtestLeverage,
			RiskFactor:     backtestRisk,
		})
	}

	results, err := appDep.services.BacktestService.RunMany(ctx, reqs)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	printResults(results)

	if backtestExport != "" {
		for _, result := range results {
			path := backtestExport
			if len(results) > 1 {
				path = fmt.Sprintf("%s.%s", backtestExport, result.Parameters.CurrencyPair)
			}
			if err := export.TradesCSV(path, result.Trades); err != nil {
				log.Fatalf("Failed to export trades: %v", err)
			}
			fmt.Printf("Exported %d trades to %s\n", len(result.Trades), path)
		}
	}
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, -3, 0)

	var err error
	if startStr != "" {
		if start, err = time.Parse("2006-01-02", startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		if end, err = time.Parse("2006-01-02", endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

func printResults(results []*dto.BacktestResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Pair", "Model", "Trades", "Win Rate", "P&L", "Final Balance", "Max DD", "Sharpe", "Truncated"})

	for _, r := range results {
		sharpe := "n/a"
		if r.SharpeRatio != nil {
			sharpe = strconv.FormatFloat(*r.SharpeRatio, 'f', 2, 64)
		}
		truncated := ""
		if r.Truncated {
			truncated = string(r.TruncationCause)
		}
		table.Append([]string{
			r.Parameters.CurrencyPair,
			r.Parameters.ModelType,
			strconv.Itoa(r.TotalTrades),
			fmt.Sprintf("%.1f%%", r.WinRate*100),
			fmt.Sprintf("%.2f", r.TotalProfitLoss),
			fmt.Sprintf("%.2f", r.FinalBalance),
			fmt.Sprintf("%.2f%%", r.MaxDrawdown*100),
			sharpe,
			truncated,
		})
	}
	table.Render()
}
