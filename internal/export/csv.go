// Package export writes backtest artifacts to files for external
// analysis.
package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"forex-trading/internal/model"
)

// TradesCSV writes the trade ledger to path as CSV, one row per closed
// trade.
func TradesCSV(path string, trades []model.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&trades, f); err != nil {
		return fmt.Errorf("write trades csv: %w", err)
	}
	return nil
}
