package wizard

import (
	"errors"
	"fmt"
	"stocksim/internal/engine"
	"stocksim/types"

	"github.com/shopspring/decimal"
)

// Step is a stage of the input sequence. Steps are only reachable in order.
type Step int

const (
	StepSelect Step = iota + 1
	StepInvest
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepSelect:
		return "select"
	case StepInvest:
		return "invest"
	case StepResults:
		return "results"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var ErrStepNotReached = errors.New("step not reached")

// defaultLookback is how far before the last available day the default range starts.
const defaultLookback = 365

// DefaultRange ends on the last day of history and starts a year earlier,
// clamped to the first day of history.
func DefaultRange(history types.DateRange) types.DateRange {
	end := history.End
	start := end.AddDate(0, 0, -defaultLookback)
	if start.Before(history.Start) {
		start = history.Start
	}
	return types.NewDateRange(start, end)
}

// Session collects a validated selection, date range and investments before
// a simulation is computed. Amounts entered for an asset are kept when the
// selection changes, so going back and forth does not lose them.
type Session struct {
	history     types.DateRange
	step        Step
	assets      []string
	dateRange   types.DateRange
	investments types.Investments
}

func NewSession(history types.DateRange) *Session {
	return &Session{
		history:     history,
		step:        StepSelect,
		dateRange:   DefaultRange(history),
		investments: types.Investments{},
	}
}

func (s *Session) Step() Step {
	return s.step
}

func (s *Session) History() types.DateRange {
	return s.history
}

// Assets returns the current selection in the order it was given.
func (s *Session) Assets() []string {
	return append([]string(nil), s.assets...)
}

func (s *Session) Range() types.DateRange {
	return s.dateRange
}

// Select validates the selection and range and moves to StepInvest.
// On error the session is left unchanged.
func (s *Session) Select(assets []string, r types.DateRange) error {
	selected, err := engine.ValidateSelection(assets)
	if err != nil {
		return err
	}
	r = types.NewDateRange(r.Start, r.End)
	if err := engine.ValidateRange(r, s.history); err != nil {
		return err
	}
	s.assets = selected
	s.dateRange = r
	s.step = StepInvest
	return nil
}

// Investment returns the amount entered for ticker, zero when none was.
func (s *Session) Investment(ticker string) decimal.Decimal {
	return s.investments.Get(ticker)
}

// Invest records the amounts for the selected assets and moves to
// StepResults. Selected assets missing from amounts keep their previous
// value. Negative amounts and unselected tickers are rejected.
func (s *Session) Invest(amounts types.Investments) error {
	if s.step < StepInvest {
		return fmt.Errorf("%w: select assets first", ErrStepNotReached)
	}
	if err := engine.ValidateInvestments(amounts); err != nil {
		return err
	}
	selected := make(map[string]bool, len(s.assets))
	for _, a := range s.assets {
		selected[a] = true
	}
	for ticker := range amounts {
		if !selected[ticker] {
			return fmt.Errorf("%w: %s is not selected", engine.ErrInvalidInvestment, ticker)
		}
	}
	for ticker, amount := range amounts {
		s.investments[ticker] = amount
	}
	s.step = StepResults
	return nil
}

// Back returns to the previous step. Entered values are kept.
func (s *Session) Back() Step {
	if s.step > StepSelect {
		s.step--
	}
	return s.step
}

// Simulation returns the collected inputs, limited to the selected assets.
func (s *Session) Simulation() (engine.Simulation, error) {
	if s.step < StepResults {
		return engine.Simulation{}, fmt.Errorf("%w: enter investments first", ErrStepNotReached)
	}
	investments := make(types.Investments, len(s.assets))
	for _, a := range s.assets {
		investments[a] = s.investments.Get(a)
	}
	return engine.NewSimulation(s.Assets(), s.dateRange, investments), nil
}
