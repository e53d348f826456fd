package engine

import (
	"io"
	"stocksim/types"
)

// Simulation is the full input of one buy-and-hold run.
type Simulation struct {
	Assets      []string
	Range       types.DateRange
	Investments types.Investments
}

func NewSimulation(assets []string, r types.DateRange, investments types.Investments) Simulation {
	if investments == nil {
		investments = types.Investments{}
	}
	return Simulation{
		Assets:      assets,
		Range:       r,
		Investments: investments,
	}
}

type EngineConfig struct {
	// progressOutput receives a load progress bar; nil disables it.
	progressOutput io.Writer
}

func NewEngineConfig(progressOutput io.Writer) *EngineConfig {
	return &EngineConfig{
		progressOutput: progressOutput,
	}
}
