package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"forex-trading/internal/dto"
	"forex-trading/internal/model"
	"forex-trading/pkg/cache"
)

// CandleRepository supplies ordered, gap-free bar history for a pair and
// timeframe. Timestamps are strictly monotonic.
type CandleRepository interface {
	Get(ctx context.Context, param dto.GetBarsParam) ([]model.Bar, error)
}

// maxBarsPerRequest caps a single span of generated history.
const maxBarsPerRequest = 5000

type syntheticCandleRepository struct{}

// NewSyntheticCandleRepository returns a bar source that generates a
// reproducible random walk seeded by (pair, timeframe, start): the same
// request always yields byte-identical history.
func NewSyntheticCandleRepository() CandleRepository {
	return &syntheticCandleRepository{}
}

func (r *syntheticCandleRepository) Get(_ context.Context, param dto.GetBarsParam) ([]model.Bar, error) {
	minutes, ok := dto.TimeframeMinutes[param.Timeframe]
	if !ok {
		return nil, fmt.Errorf("unknown timeframe: %s", param.Timeframe)
	}
	if !param.End.After(param.Start) {
		return nil, fmt.Errorf("end %s is not after start %s", param.End, param.Start)
	}

	base, ok := dto.BasePrices[param.Pair]
	if !ok {
		base = 1.0
	}

	totalMinutes := int(param.End.Sub(param.Start).Minutes())
	numBars := totalMinutes / minutes
	if numBars > maxBarsPerRequest {
		numBars = maxBarsPerRequest
	}

	rng := rand.New(rand.NewSource(seedFor(param.Pair, param.Timeframe, param.Start)))

	bars := make([]model.Bar, 0, numBars)
	currentPrice := base
	currentTime := param.Start

	for i := 0; i < numBars; i++ {
		change := rng.NormFloat64() * 0.002
		volatility := math.Abs(rng.NormFloat64() * 0.001)

		openPrice := currentPrice
		closePrice := currentPrice * (1 + change)
		highPrice := math.Max(openPrice, closePrice) * (1 + volatility)
		lowPrice := math.Min(openPrice, closePrice) * (1 - volatility)

		bars = append(bars, model.Bar{
			Timestamp: currentTime,
			Open:      openPrice,
			High:      highPrice,
			Low:       lowPrice,
			Close:     closePrice,
			Volume:    float64(1000 + rng.Intn(9000)),
		})

		currentPrice = closePrice
		currentTime = currentTime.Add(time.Duration(minutes) * time.Minute)
	}

	return bars, nil
}

func seedFor(pair, timeframe string, start time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%s:%s", pair, timeframe, start.UTC().Format(time.RFC3339))
	return int64(h.Sum64())
}

type cachedCandleRepository struct {
	inner CandleRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedCandleRepository wraps a bar source with an in-memory cache so
// parallel runs over the same span share one generated series.
func NewCachedCandleRepository(inner CandleRepository, c cache.Cache, ttl time.Duration) CandleRepository {
	return &cachedCandleRepository{inner: inner, cache: c, ttl: ttl}
}

func (r *cachedCandleRepository) Get(ctx context.Context, param dto.GetBarsParam) ([]model.Bar, error) {
	key := fmt.Sprintf("bars:%s:%s:%d:%d",
		param.Pair, param.Timeframe, param.Start.Unix(), param.End.Unix())

	if bars, found := cache.GetTyped[[]model.Bar](r.cache, key); found {
		return bars, nil
	}

	bars, err := r.inner.Get(ctx, param)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, bars, r.ttl)
	return bars, nil
}
