package indicator

import (
	"fmt"
	"math"

	"forex-trading/internal/model"
)

// Window is a fixed-size slice of indicator history: Timesteps rows of
// Features columns, ending at a given bar. It is the unit consumed by the
// prediction models.
type Window struct {
	Timesteps int
	Features  int
	// Data is row-major: Data[t][f] is indicator f at timestep t, with
	// t = Timesteps-1 the most recent bar.
	Data [][]float64
	// LastClose is the close of the most recent bar in the window.
	LastClose float64
}

// Flatten returns the window as one row-major vector.
func (w *Window) Flatten() []float64 {
	out := make([]float64, 0, w.Timesteps*w.Features)
	for _, row := range w.Data {
		out = append(out, row...)
	}
	return out
}

// Builder derives feature windows from bar history for a fixed set of
// indicators. It satisfies the simulator's feature source contract.
type Builder struct {
	names     []string
	timesteps int
}

// NewBuilder creates a window builder over the given indicator names
// (empty = full catalog) with the given window length.
func NewBuilder(names []string, timesteps int) *Builder {
	if len(names) == 0 {
		names = List()
	}
	return &Builder{names: names, timesteps: timesteps}
}

// Features returns the number of indicator columns per timestep.
func (b *Builder) Features() int {
	return len(b.names)
}

// Timesteps returns the window length in bars.
func (b *Builder) Timesteps() int {
	return b.timesteps
}

// Warmup returns the minimum number of bars required before WindowAt can
// produce a fully defined window.
func (b *Builder) Warmup() int {
	return MaxWarmup(b.names) + b.timesteps - 1
}

// WindowAt builds the feature window ending at bar index t, using only
// bars[0..t]. Any undefined cell inside the window is an
// InsufficientDataError.
func (b *Builder) WindowAt(bars []model.Bar, t int) (*Window, error) {
	if t >= len(bars) {
		return nil, fmt.Errorf("bar index %d out of range (%d bars)", t, len(bars))
	}
	if t+1 < b.Warmup() {
		return nil, &InsufficientDataError{Required: b.Warmup(), Got: t + 1}
	}

	// Recompute over the prefix only. Appending future bars can never
	// change the values inside the window.
	prefix := bars[:t+1]
	series, err := ComputeAll(prefix, b.names)
	if err != nil {
		return nil, err
	}

	window := &Window{
		Timesteps: b.timesteps,
		Features:  len(b.names),
		Data:      make([][]float64, b.timesteps),
		LastClose: bars[t].Close,
	}
	for row := 0; row < b.timesteps; row++ {
		idx := t - b.timesteps + 1 + row
		values := make([]float64, len(b.names))
		for col, name := range b.names {
			v := series[name][idx]
			if math.IsNaN(v) {
				return nil, &InsufficientDataError{Required: b.Warmup(), Got: t + 1}
			}
			values[col] = v
		}
		window.Data[row] = values
	}
	return window, nil
}
