// Package indicator computes technical indicator series over ordered bar
// history. Every computation is a pure function of the bar prefix: the
// value at index t depends only on bars[0..t], so recomputing over any
// prefix reproduces exactly the values seen when that prefix was the full
// history.
package indicator

import (
	"fmt"

	"forex-trading/internal/model"
)

// Catalog lists every supported indicator in the order used to build
// feature windows.
var Catalog = []string{
	// Moving averages
	"sma", "sma_50", "ema", "ema_50", "wma", "hma",
	// Momentum
	"momentum", "rsi", "macd", "macd_signal", "macd_hist", "roc", "ppo", "kst", "trix",
	// Volatility
	"bollinger_upper", "bollinger_middle", "bollinger_lower", "atr",
	"donchian_upper", "donchian_lower",
	// Oscillators
	"stochastic_k", "stochastic_d", "williams_r", "cci",
	// Trend
	"adx", "aroon_up", "aroon_down",
}

// warmupBars maps each indicator to the minimum number of bars required
// before it produces its first defined value. Derived series (signal
// lines, smoothed oscillators) accumulate the warm-up of every stage.
var warmupBars = map[string]int{
	"sma":              20,
	"sma_50":           50,
	"ema":              20,
	"ema_50":           50,
	"wma":              20,
	"hma":              23,
	"momentum":         11,
	"rsi":              15,
	"macd":             26,
	"macd_signal":      34,
	"macd_hist":        34,
	"roc":              11,
	"ppo":              26,
	"kst":              45,
	"trix":             44,
	"bollinger_upper":  20,
	"bollinger_middle": 20,
	"bollinger_lower":  20,
	"atr":              14,
	"donchian_upper":   20,
	"donchian_lower":   20,
	"stochastic_k":     14,
	"stochastic_d":     16,
	"williams_r":       14,
	"cci":              20,
	"adx":              27,
	"aroon_up":         26,
	"aroon_down":       26,
}

// InsufficientDataError reports that the bar history is shorter than the
// warm-up the requested computation needs.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient bar history: need at least %d bars, got %d", e.Required, e.Got)
}

// List returns a copy of the indicator catalog.
func List() []string {
	out := make([]string, len(Catalog))
	copy(out, Catalog)
	return out
}

// IsValid reports whether name is part of the catalog.
func IsValid(name string) bool {
	_, ok := warmupBars[name]
	return ok
}

// Warmup returns the minimum number of bars the named indicator needs
// before its first defined value, or 0 for an unknown name.
func Warmup(name string) int {
	return warmupBars[name]
}

// MaxWarmup returns the largest warm-up across the given indicators.
func MaxWarmup(names []string) int {
	max := 0
	for _, name := range names {
		if w := warmupBars[name]; w > max {
			max = w
		}
	}
	return max
}

// Compute calculates one indicator over the full bar history. Entries
// before the indicator's warm-up window are NaN. The result is aligned
// 1:1 with bars and never depends on bars after each output index.
func Compute(bars []model.Bar, name string) ([]float64, error) {
	warmup, ok := warmupBars[name]
	if !ok {
		return nil, fmt.Errorf("unknown indicator: %s", name)
	}
	if len(bars) < warmup {
		return nil, &InsufficientDataError{Required: warmup, Got: len(bars)}
	}

	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	close := make([]float64, len(bars))
	for i, bar := range bars {
		high[i] = bar.High
		low[i] = bar.Low
		close[i] = bar.Close
	}

	switch name {
	case "sma":
		return smaSeries(close, 20), nil
	case "sma_50":
		return smaSeries(close, 50), nil
	case "ema":
		return emaSeries(close, 20), nil
	case "ema_50":
		return emaSeries(close, 50), nil
	case "wma":
		return wmaSeries(close, 20), nil
	case "hma":
		return hmaSeries(close, 20), nil
	case "momentum":
		return momentumSeries(close, 10), nil
	case "rsi":
		return rsiSeries(close, 14), nil
	case "macd":
		macd, _, _ := macdSeries(close)
		return macd, nil
	case "macd_signal":
		_, signal, _ := macdSeries(close)
		return signal, nil
	case "macd_hist":
		_, _, hist := macdSeries(close)
		return hist, nil
	case "roc":
		return rocSeries(close, 10), nil
	case "ppo":
		return ppoSeries(close), nil
	case "kst":
		return kstSeries(close), nil
	case "trix":
		return trixSeries(close, 15), nil
	case "bollinger_upper":
		_, upper, _ := bollingerSeries(close, 20, 2.0)
		return upper, nil
	case "bollinger_middle":
		middle, _, _ := bollingerSeries(close, 20, 2.0)
		return middle, nil
	case "bollinger_lower":
		_, _, lower := bollingerSeries(close, 20, 2.0)
		return lower, nil
	case "atr":
		return atrSeries(high, low, close, 14), nil
	case "donchian_upper":
		upper, _ := donchianSeries(high, low, 20)
		return upper, nil
	case "donchian_lower":
		_, lower := donchianSeries(high, low, 20)
		return lower, nil
	case "stochastic_k":
		k, _ := stochasticSeries(high, low, close, 14, 3)
		return k, nil
	case "stochastic_d":
		_, d := stochasticSeries(high, low, close, 14, 3)
		return d, nil
	case "williams_r":
		return williamsRSeries(high, low, close, 14), nil
	case "cci":
		return cciSeries(high, low, close, 20), nil
	case "adx":
		return adxSeries(high, low, close, 14), nil
	case "aroon_up":
		up, _ := aroonSeries(high, low, 25)
		return up, nil
	case "aroon_down":
		_, down := aroonSeries(high, low, 25)
		return down, nil
	default:
		return nil, fmt.Errorf("unknown indicator: %s", name)
	}
}

// ComputeAll calculates the named indicators (or the full catalog when
// names is empty) over the bar history.
func ComputeAll(bars []model.Bar, names []string) (map[string][]float64, error) {
	if len(names) == 0 {
		names = Catalog
	}
	if required := MaxWarmup(names); len(bars) < required {
		return nil, &InsufficientDataError{Required: required, Got: len(bars)}
	}

	out := make(map[string][]float64, len(names))
	for _, name := range names {
		values, err := Compute(bars, name)
		if err != nil {
			return nil, err
		}
		out[name] = values
	}
	return out, nil
}
