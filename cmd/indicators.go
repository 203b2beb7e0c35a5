package cmd

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
	"forex-trading/internal/repository"
)

var (
	indicatorsPair      string
	indicatorsTimeframe string
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List supported indicators, or compute their latest values for a pair",
	Run:   runIndicators,
}

func init() {
	indicatorsCmd.Flags().StringVar(&indicatorsPair, "pair", "", "compute latest values for this currency pair")
	indicatorsCmd.Flags().StringVar(&indicatorsTimeframe, "timeframe", "H1", "bar timeframe (M1..D1)")
}

func runIndicators(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(os.Stdout)

	if indicatorsPair == "" {
		table.SetHeader([]string{"Indicator", "Warm-up Bars"})
		for _, name := range indicator.List() {
			table.Append([]string{name, strconv.Itoa(indicator.Warmup(name))})
		}
		table.Render()
		return
	}

	values, err := latestIndicatorValues(strings.ToUpper(indicatorsPair), indicatorsTimeframe)
	if err != nil {
		log.Fatalf("Failed to compute indicators: %v", err)
	}

	table.SetHeader([]string{"Indicator", "Latest Value"})
	for _, name := range indicator.List() {
		table.Append([]string{name, fmt.Sprintf("%.5f", values[name])})
	}
	table.Render()
}

// latestIndicatorValues computes the full catalog over recent history and
// returns each indicator's most recent value.
func latestIndicatorValues(pair, timeframe string) (map[string]float64, error) {
	minutes, ok := dto.TimeframeMinutes[timeframe]
	if !ok {
		return nil, fmt.Errorf("unknown timeframe: %s", timeframe)
	}

	// Twice the longest warm-up gives every indicator a settled value.
	numBars := 2 * indicator.MaxWarmup(indicator.List())
	end := time.Now().UTC().Truncate(time.Duration(minutes) * time.Minute)
	start := end.Add(-time.Duration(numBars*minutes) * time.Minute)

	repo := repository.NewSyntheticCandleRepository()
	bars, err := repo.Get(context.Background(), dto.GetBarsParam{
		Pair:      pair,
		Timeframe: timeframe,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, err
	}

	series, err := indicator.ComputeAll(bars, nil)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]float64, len(series))
	for name, values := range series {
		v := values[len(values)-1]
		if math.IsNaN(v) {
			continue
		}
		latest[name] = v
	}
	return latest, nil
}
