package engine

import (
	"context"
	"errors"
	"fmt"
	"stocksim/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine values buy-and-hold simulations against read-only stores. It keeps
// no state between runs, so one Engine can serve concurrent callers.
type Engine struct {
	prices    PriceStore
	dividends DividendStore
	config    *EngineConfig
	log       zerolog.Logger
}

func NewEngine(prices PriceStore, dividends DividendStore, config *EngineConfig, log zerolog.Logger) *Engine {
	if config == nil {
		config = NewEngineConfig(nil)
	}
	return &Engine{
		prices:    prices,
		dividends: dividends,
		config:    config,
		log:       log.With().Str("component", "engine").Logger(),
	}
}

// HistoryBounds returns the first and last day of the available price history.
func (e *Engine) HistoryBounds(ctx context.Context) (types.DateRange, error) {
	bounds, err := e.prices.HistoryBounds(ctx)
	if err != nil {
		if errors.Is(err, types.ErrNoData) {
			return types.DateRange{}, fmt.Errorf("%w: no price history available", ErrInvalidRange)
		}
		return types.DateRange{}, fmt.Errorf("history bounds: %w", err)
	}
	return types.NewDateRange(bounds.Start, bounds.End), nil
}

// Compute validates sim, loads the in-range data of each asset and returns
// per-asset rows plus totals. Validation failures abort before any data is read.
func (e *Engine) Compute(ctx context.Context, sim Simulation) (*Result, error) {
	assets, err := ValidateSelection(sim.Assets)
	if err != nil {
		return nil, err
	}
	if err := ValidateInvestments(sim.Investments); err != nil {
		return nil, err
	}
	r := types.NewDateRange(sim.Range.Start, sim.Range.End)
	bounds, err := e.HistoryBounds(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateRange(r, bounds); err != nil {
		return nil, err
	}

	feeds, err := e.loadFeeds(ctx, assets, r)
	if err != nil {
		return nil, err
	}
	if err := validateQuantities(assets, sim.Investments, feeds); err != nil {
		return nil, err
	}

	result := value(assets, r, sim.Investments, feeds)
	result.RunID = uuid.New()

	for _, w := range result.Warnings {
		e.log.Warn().Str("run", result.RunID.String()).Str("ticker", w.Ticker).Msg(w.Error())
	}
	for _, row := range result.Positions {
		e.log.Debug().
			Str("run", result.RunID.String()).
			Str("ticker", row.Ticker).
			Int64("quantity", row.Quantity).
			Str("profit", row.ProfitAmount.String()).
			Msg("valued position")
	}
	e.log.Info().
		Str("run", result.RunID.String()).
		Str("range", r.String()).
		Int("assets", len(assets)).
		Str("invested", result.Totals.InitialValue.String()).
		Str("current", result.Totals.CurrentValue.String()).
		Msg("simulation computed")

	return result, nil
}
