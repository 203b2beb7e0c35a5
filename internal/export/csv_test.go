package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-trading/internal/model"
)

func TestTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	opened := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	trades := []model.Trade{
		{
			ID:          "trade-1",
			Pair:        "EURUSD",
			Side:        model.SideBuy,
			EntryPrice:  1.0852,
			ExitPrice:   1.0901,
			LotSize:     10,
			Leverage:    100,
			OpenedAt:    opened,
			ClosedAt:    opened.Add(4 * time.Hour),
			ProfitLoss:  49,
			ProfitPips:  49,
			CloseReason: model.CloseTakeProfit,
		},
	}

	require.NoError(t, TradesCSV(path, trades))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "entry_price")
	assert.Contains(t, lines[1], "EURUSD")
	assert.Contains(t, lines[1], "TAKE_PROFIT")
}

func TestTradesCSV_EmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, TradesCSV(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "close_reason")
}

func TestTradesCSV_BadPath(t *testing.T) {
	err := TradesCSV(filepath.Join(t.TempDir(), "missing", "trades.csv"), nil)
	assert.Error(t, err)
}
