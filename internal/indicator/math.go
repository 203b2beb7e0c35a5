package indicator

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Series primitives. Every function returns a slice aligned 1:1 with its
// input where entries before the warm-up window are NaN (undefined, never
// zero). Derived series keep their NaN prefix, so stacking indicators
// (e.g. EMA of MACD) extends the warm-up instead of leaking garbage.

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func hasNaN(window []float64) bool {
	for _, v := range window {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// firstDefined returns the index of the first non-NaN entry, or -1.
func firstDefined(data []float64) int {
	for i, v := range data {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

func smaSeries(data []float64, period int) []float64 {
	out := nanSeries(len(data))
	for i := period - 1; i < len(data); i++ {
		window := data[i-period+1 : i+1]
		if hasNaN(window) {
			continue
		}
		mean, err := stats.Mean(window)
		if err != nil {
			continue
		}
		out[i] = mean
	}
	return out
}

// emaSeries seeds with the simple average of the first period defined
// values, then applies ema[t] = price[t]*α + ema[t-1]*(1-α), α = 2/(n+1).
func emaSeries(data []float64, period int) []float64 {
	out := nanSeries(len(data))
	start := firstDefined(data)
	if start < 0 || len(data)-start < period {
		return out
	}

	seed, err := stats.Mean(data[start : start+period])
	if err != nil {
		return out
	}
	multiplier := 2.0 / float64(period+1)

	idx := start + period - 1
	out[idx] = seed
	for i := idx + 1; i < len(data); i++ {
		out[i] = (data[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

func wmaSeries(data []float64, period int) []float64 {
	out := nanSeries(len(data))
	weightSum := float64(period*(period+1)) / 2.0
	for i := period - 1; i < len(data); i++ {
		window := data[i-period+1 : i+1]
		if hasNaN(window) {
			continue
		}
		var acc float64
		for j, v := range window {
			acc += v * float64(j+1)
		}
		out[i] = acc / weightSum
	}
	return out
}

func hmaSeries(data []float64, period int) []float64 {
	halfPeriod := period / 2
	sqrtPeriod := int(math.Sqrt(float64(period)))
	wmaHalf := wmaSeries(data, halfPeriod)
	wmaFull := wmaSeries(data, period)

	diff := nanSeries(len(data))
	for i := range data {
		diff[i] = 2*wmaHalf[i] - wmaFull[i]
	}
	return wmaSeries(diff, sqrtPeriod)
}

func momentumSeries(data []float64, period int) []float64 {
	out := nanSeries(len(data))
	for i := period; i < len(data); i++ {
		out[i] = data[i] - data[i-period]
	}
	return out
}

// rsiSeries implements Wilder's smoothing: the seed averages the first
// period gains/losses, later values fold each delta in with weight 1/n.
// When the average loss is zero RSI is defined as 100.
func rsiSeries(data []float64, period int) []float64 {
	out := nanSeries(len(data))
	if len(data) <= period {
		return out
	}

	gains := make([]float64, len(data)-1)
	losses := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		delta := data[i] - data[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGain, _ := stats.Mean(gains[:period])
	avgLoss, _ := stats.Mean(losses[:period])

	for i := period; i < len(data); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i-1]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i-1]) / float64(period)
		if avgLoss == 0 {
			out[i] = 100
		} else {
			rs := avgGain / avgLoss
			out[i] = 100 - (100 / (1 + rs))
		}
	}
	return out
}

func macdSeries(data []float64) (macd, signal, hist []float64) {
	ema12 := emaSeries(data, 12)
	ema26 := emaSeries(data, 26)

	macd = nanSeries(len(data))
	for i := range data {
		macd[i] = ema12[i] - ema26[i]
	}
	signal = emaSeries(macd, 9)
	hist = nanSeries(len(data))
	for i := range data {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}

func rocSeries(data []float64, period int) []float64 {
	out := nanSeries(len(data))
	for i := period; i < len(data); i++ {
		if data[i-period] != 0 {
			out[i] = ((data[i] - data[i-period]) / data[i-period]) * 100
		}
	}
	return out
}

func ppoSeries(data []float64) []float64 {
	ema12 := emaSeries(data, 12)
	ema26 := emaSeries(data, 26)
	out := nanSeries(len(data))
	for i := range data {
		if math.IsNaN(ema12[i]) || math.IsNaN(ema26[i]) {
			continue
		}
		if ema26[i] != 0 {
			out[i] = ((ema12[i] - ema26[i]) / ema26[i]) * 100
		} else {
			out[i] = 0
		}
	}
	return out
}

func kstSeries(data []float64) []float64 {
	roc1 := smaSeries(rocSeries(data, 10), 10)
	roc2 := smaSeries(rocSeries(data, 15), 10)
	roc3 := smaSeries(rocSeries(data, 20), 10)
	roc4 := smaSeries(rocSeries(data, 30), 15)

	out := nanSeries(len(data))
	for i := range data {
		out[i] = roc1[i] + 2*roc2[i] + 3*roc3[i] + 4*roc4[i]
	}
	return out
}

func trixSeries(data []float64, period int) []float64 {
	e3 := emaSeries(emaSeries(emaSeries(data, period), period), period)
	out := nanSeries(len(data))
	for i := 1; i < len(data); i++ {
		if math.IsNaN(e3[i]) || math.IsNaN(e3[i-1]) || e3[i-1] == 0 {
			continue
		}
		out[i] = (e3[i] - e3[i-1]) / e3[i-1] * 100
	}
	return out
}

func bollingerSeries(data []float64, period int, stdDev float64) (middle, upper, lower []float64) {
	middle = smaSeries(data, period)
	upper = nanSeries(len(data))
	lower = nanSeries(len(data))
	for i := period - 1; i < len(data); i++ {
		window := data[i-period+1 : i+1]
		if hasNaN(window) {
			continue
		}
		sd, err := stats.StandardDeviation(window)
		if err != nil {
			continue
		}
		upper[i] = middle[i] + stdDev*sd
		lower[i] = middle[i] - stdDev*sd
	}
	return middle, upper, lower
}

func trueRangeSeries(high, low, close []float64) []float64 {
	tr := make([]float64, len(close))
	tr[0] = high[0] - low[0]
	for i := 1; i < len(close); i++ {
		tr[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
	}
	return tr
}

func atrSeries(high, low, close []float64, period int) []float64 {
	return smaSeries(trueRangeSeries(high, low, close), period)
}

func donchianSeries(high, low []float64, period int) (upper, lower []float64) {
	upper = nanSeries(len(high))
	lower = nanSeries(len(low))
	for i := period - 1; i < len(high); i++ {
		hi, lo := high[i], low[i]
		for j := i - period + 1; j < i; j++ {
			hi = math.Max(hi, high[j])
			lo = math.Min(lo, low[j])
		}
		upper[i] = hi
		lower[i] = lo
	}
	return upper, lower
}

func stochasticSeries(high, low, close []float64, period, smoothing int) (k, d []float64) {
	k = nanSeries(len(close))
	for i := period - 1; i < len(close); i++ {
		highest, lowest := high[i], low[i]
		for j := i - period + 1; j < i; j++ {
			highest = math.Max(highest, high[j])
			lowest = math.Min(lowest, low[j])
		}
		if highest-lowest != 0 {
			k[i] = ((close[i] - lowest) / (highest - lowest)) * 100
		}
	}
	d = smaSeries(k, smoothing)
	return k, d
}

func williamsRSeries(high, low, close []float64, period int) []float64 {
	out := nanSeries(len(close))
	for i := period - 1; i < len(close); i++ {
		highest, lowest := high[i], low[i]
		for j := i - period + 1; j < i; j++ {
			highest = math.Max(highest, high[j])
			lowest = math.Min(lowest, low[j])
		}
		if highest-lowest != 0 {
			out[i] = ((highest - close[i]) / (highest - lowest)) * -100
		}
	}
	return out
}

func cciSeries(high, low, close []float64, period int) []float64 {
	tp := make([]float64, len(close))
	for i := range close {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}
	smaTp := smaSeries(tp, period)

	out := nanSeries(len(close))
	for i := period - 1; i < len(tp); i++ {
		var mad float64
		for j := i - period + 1; j <= i; j++ {
			mad += math.Abs(tp[j] - smaTp[i])
		}
		mad /= float64(period)
		if mad != 0 {
			out[i] = (tp[i] - smaTp[i]) / (0.015 * mad)
		} else {
			out[i] = 0
		}
	}
	return out
}

func adxSeries(high, low, close []float64, period int) []float64 {
	tr := trueRangeSeries(high, low, close)

	plusDM := make([]float64, len(high))
	minusDM := make([]float64, len(high))
	for i := 1; i < len(high); i++ {
		plusDM[i] = math.Max(high[i]-high[i-1], 0)
		minusDM[i] = math.Max(low[i-1]-low[i], 0)
	}

	emaPlus := emaSeries(plusDM, period)
	emaMinus := emaSeries(minusDM, period)
	emaTR := emaSeries(tr, period)

	dx := nanSeries(len(high))
	for i := range high {
		if math.IsNaN(emaPlus[i]) || math.IsNaN(emaMinus[i]) || math.IsNaN(emaTR[i]) || emaTR[i] == 0 {
			continue
		}
		plusDI := 100 * emaPlus[i] / emaTR[i]
		minusDI := 100 * emaMinus[i] / emaTR[i]
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI + 1e-10)
	}
	return emaSeries(dx, period)
}

func aroonSeries(high, low []float64, period int) (up, down []float64) {
	up = nanSeries(len(high))
	down = nanSeries(len(low))
	for i := period; i < len(high); i++ {
		highIdx, lowIdx := 0, 0
		for j := 1; j <= period; j++ {
			if high[i-period+j] > high[i-period+highIdx] {
				highIdx = j
			}
			if low[i-period+j] < low[i-period+lowIdx] {
				lowIdx = j
			}
		}
		up[i] = float64(highIdx) / float64(period) * 100
		down[i] = float64(lowIdx) / float64(period) * 100
	}
	return up, down
}
