// Package simulator replays historical bars through an event-driven loop,
// consulting a prediction model for entry signals and managing position
// lifecycle, margin and equity. Each run is strictly sequential and
// deterministic: identical inputs reproduce identical trade ledgers and
// equity curves.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
	"forex-trading/internal/model"
	"forex-trading/pkg/logger"
)

// FeatureSource derives the feature window ending at a bar index, using
// only bars at or before that index.
type FeatureSource interface {
	Warmup() int
	WindowAt(bars []model.Bar, t int) (*indicator.Window, error)
}

// Predictor is the abstract prediction contract the simulator depends
// on; it never sees a concrete model variant.
type Predictor interface {
	Predict(window *indicator.Window) (*dto.Signal, error)
}

// Config carries the per-run trading parameters.
type Config struct {
	Pair                string
	InitialBalance      float64
	Leverage            int
	RiskFactor          float64
	SpreadPips          float64
	ConfidenceThreshold float64
	MaxOpenPositions    int
	TakeProfitATR       float64
	StopLossATR         float64
}

// Result is the raw outcome of one replay: the completed trade ledger,
// the equity curve and the terminal account state.
type Result struct {
	FinalBalance    float64
	Trades          []model.Trade
	EquityCurve     []model.EquityPoint
	InferenceErrors int
	Truncated       bool
	TruncationCause dto.TruncationReason
}

// Simulator replays bars for a single run. Instances are single-use and
// not safe for concurrent calls; independent runs get independent
// simulators.
type Simulator struct {
	log       *logger.Logger
	cfg       Config
	features  FeatureSource
	predictor Predictor
}

func New(cfg Config, features FeatureSource, predictor Predictor, log *logger.Logger) *Simulator {
	if cfg.MaxOpenPositions <= 0 {
		cfg.MaxOpenPositions = 1
	}
	return &Simulator{
		log:       log,
		cfg:       cfg,
		features:  features,
		predictor: predictor,
	}
}

// Run replays the bar history in strict timestamp order. It returns an
// indicator.InsufficientDataError before opening any trade when the
// history is shorter than the feature warm-up. Cancellation via ctx and
// bankruptcy both end the run early with a partial, truncated result;
// per-bar inference failures are absorbed and counted.
func (s *Simulator) Run(ctx context.Context, bars []model.Bar) (*Result, error) {
	warmup := s.features.Warmup()
	if len(bars) < warmup {
		return nil, &indicator.InsufficientDataError{Required: warmup, Got: len(bars)}
	}

	// Replay order is load-bearing for determinism; never trust the
	// caller's buffering.
	ordered := make([]model.Bar, len(bars))
	copy(ordered, bars)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	state := &runState{balance: s.cfg.InitialBalance}
	result := &Result{
		Trades:      []model.Trade{},
		EquityCurve: make([]model.EquityPoint, 0, len(ordered)),
	}

	lastProcessed := -1
	for i, bar := range ordered {
		if err := ctx.Err(); err != nil {
			result.Truncated = true
			result.TruncationCause = dto.TruncationCancelled
			s.log.Warn("Backtest cancelled, returning partial result",
				logger.StringField("pair", s.cfg.Pair),
				logger.IntField("bars_processed", i),
			)
			break
		}

		// Exits first, so a close and a new open on the same bar never
		// double-count balance.
		s.checkExits(state, result, bar)
		if state.balance <= 0 {
			result.Truncated = true
			result.TruncationCause = dto.TruncationBankruptcy
			lastProcessed = i
			result.EquityCurve = append(result.EquityCurve, s.equityPoint(state, bar))
			break
		}

		if len(state.open) < s.cfg.MaxOpenPositions && i+1 >= warmup {
			s.tryOpen(state, result, ordered, i)
		}

		result.EquityCurve = append(result.EquityCurve, s.equityPoint(state, bar))
		lastProcessed = i
	}

	// Force-close whatever is still open at the last processed bar.
	if lastProcessed >= 0 {
		lastBar := ordered[lastProcessed]
		for _, pos := range state.open {
			trade := closePosition(pos, lastBar.Close, lastBar.Timestamp, model.CloseEndOfRun)
			state.balance += trade.ProfitLoss
			result.Trades = append(result.Trades, trade)
		}
		state.open = nil
	}

	result.FinalBalance = state.balance
	return result, nil
}

type runState struct {
	balance float64
	open    []*model.Position
}

// checkExits closes any open position whose stop-loss, take-profit or
// margin-call condition is crossed by the bar's high/low range. Fills
// happen at the triggered level, not the bar close. When a gap crosses
// both levels, the stop-loss wins as the worst-case assumption.
func (s *Simulator) checkExits(state *runState, result *Result, bar model.Bar) {
	remaining := state.open[:0]
	for _, pos := range state.open {
		exitPrice, reason, triggered := s.exitFor(state, pos, bar)
		if !triggered {
			remaining = append(remaining, pos)
			continue
		}

		trade := closePosition(pos, exitPrice, bar.Timestamp, reason)
		state.balance += trade.ProfitLoss
		result.Trades = append(result.Trades, trade)

		s.log.Debug("Closed position",
			logger.StringField("pair", pos.Pair),
			logger.StringField("reason", string(reason)),
			logger.FloatField("exit_price", exitPrice),
			logger.FloatField("profit_loss", trade.ProfitLoss),
		)
	}
	state.open = remaining
}

func (s *Simulator) exitFor(state *runState, pos *model.Position, bar model.Bar) (float64, model.CloseReason, bool) {
	// Worst price the bar reached against the position.
	worst := bar.Low
	if pos.Side == model.SideSell {
		worst = bar.High
	}

	// Margin call fires before the stop when the bar's adverse extreme
	// would wipe the balance even at the stop level.
	if state.balance+pos.UnrealizedPL(worst) <= 0 {
		return worst, model.CloseMarginCall, true
	}

	if pos.Side == model.SideBuy {
		if pos.StopLoss > 0 && bar.Low <= pos.StopLoss {
			return pos.StopLoss, model.CloseStopLoss, true
		}
		if pos.TakeProfit > 0 && bar.High >= pos.TakeProfit {
			return pos.TakeProfit, model.CloseTakeProfit, true
		}
	} else {
		if pos.StopLoss > 0 && bar.High >= pos.StopLoss {
			return pos.StopLoss, model.CloseStopLoss, true
		}
		if pos.TakeProfit > 0 && bar.Low <= pos.TakeProfit {
			return pos.TakeProfit, model.CloseTakeProfit, true
		}
	}
	return 0, "", false
}

// tryOpen requests a signal for the bar at index i and opens a position
// when the signal is directional and confident enough. A rejected open
// (insufficient margin) is a logged no-op; an inference failure is
// absorbed and counted.
func (s *Simulator) tryOpen(state *runState, result *Result, bars []model.Bar, i int) {
	bar := bars[i]

	window, err := s.features.WindowAt(bars, i)
	if err != nil {
		var insufficient *indicator.InsufficientDataError
		if errors.As(err, &insufficient) {
			return // warm-up not satisfied for every indicator yet
		}
		result.InferenceErrors++
		s.log.Warn("Failed to build feature window, skipping bar",
			logger.ErrorField(err),
			logger.StringField("pair", s.cfg.Pair),
		)
		return
	}

	signal, err := s.predictor.Predict(window)
	if err != nil {
		result.InferenceErrors++
		s.log.Warn("Model inference failed, skipping bar",
			logger.ErrorField(err),
			logger.StringField("pair", s.cfg.Pair),
			logger.Field("timestamp", bar.Timestamp),
		)
		return
	}

	if signal.Direction == dto.DirectionNeutral || signal.Confidence <= s.cfg.ConfidenceThreshold {
		return
	}

	side := model.SideBuy
	if signal.Direction == dto.DirectionDown {
		side = model.SideSell
	}

	entryPrice := bar.Close
	if side == model.SideBuy {
		// Buyers cross the spread.
		entryPrice += PipsToPrice(s.cfg.SpreadPips, entryPrice)
	}

	lotSize := s.cfg.RiskFactor * state.balance / (float64(s.cfg.Leverage) * pipValue)
	if lotSize <= 0 {
		return
	}

	pos := &model.Position{
		ID:         positionID(s.cfg.Pair, bar),
		Pair:       s.cfg.Pair,
		Side:       side,
		Status:     model.PositionPending,
		EntryPrice: entryPrice,
		LotSize:    lotSize,
		Leverage:   s.cfg.Leverage,
		OpenedAt:   bar.Timestamp,
	}

	if margin := pos.RequiredMargin(); margin > state.balance {
		pos.Status = model.PositionCancelled
		s.log.Info("Rejected open: required margin exceeds balance",
			logger.StringField("pair", s.cfg.Pair),
			logger.FloatField("required_margin", margin),
			logger.FloatField("balance", state.balance),
		)
		return
	}

	// Stop and target distances scale with the bar range as a cheap
	// volatility proxy.
	atr := bar.High - bar.Low
	tpDistance := atr * s.cfg.TakeProfitATR * s.cfg.RiskFactor
	slDistance := atr * s.cfg.StopLossATR * s.cfg.RiskFactor
	if side == model.SideBuy {
		if tpDistance > 0 {
			pos.TakeProfit = entryPrice + tpDistance
		}
		if slDistance > 0 {
			pos.StopLoss = entryPrice - slDistance
		}
	} else {
		if tpDistance > 0 {
			pos.TakeProfit = entryPrice - tpDistance
		}
		if slDistance > 0 {
			pos.StopLoss = entryPrice + slDistance
		}
	}

	pos.Status = model.PositionOpen
	state.open = append(state.open, pos)

	s.log.Debug("Opened position",
		logger.StringField("pair", pos.Pair),
		logger.StringField("side", string(side)),
		logger.FloatField("entry_price", entryPrice),
		logger.FloatField("lot_size", lotSize),
		logger.FloatField("confidence", signal.Confidence),
	)
}

func (s *Simulator) equityPoint(state *runState, bar model.Bar) model.EquityPoint {
	equity := state.balance
	for _, pos := range state.open {
		equity += pos.UnrealizedPL(bar.Close)
	}
	return model.EquityPoint{
		Timestamp: bar.Timestamp,
		Balance:   state.balance,
		Equity:    equity,
	}
}

// closePosition turns an open position into an immutable trade. The
// profit is fully explained by (exit - entry) x lot x direction, with the
// spread already folded into the entry price.
func closePosition(pos *model.Position, exitPrice float64, closedAt time.Time, reason model.CloseReason) model.Trade {
	pos.Status = model.PositionClosed
	priceDiff := (exitPrice - pos.EntryPrice) * pos.Side.DirectionSign()

	return model.Trade{
		ID:          pos.ID,
		Pair:        pos.Pair,
		Side:        pos.Side,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   exitPrice,
		LotSize:     pos.LotSize,
		Leverage:    pos.Leverage,
		StopLoss:    pos.StopLoss,
		TakeProfit:  pos.TakeProfit,
		OpenedAt:    pos.OpenedAt,
		ClosedAt:    closedAt,
		ProfitLoss:  priceDiff * pos.LotSize,
		ProfitPips:  PriceToPips(priceDiff, pos.EntryPrice),
		CloseReason: reason,
	}
}

// positionID derives a stable identifier from the pair and the entry
// bar, so identical runs produce identical ledgers.
func positionID(pair string, bar model.Bar) string {
	name := fmt.Sprintf("%s-%d", pair, bar.Timestamp.UnixNano())
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
