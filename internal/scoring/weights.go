package scoring

import (
	"fmt"
	"math"
)

// Weights combines the self (SAT/IVC), product testing and IEG scores into a
// composite. Components must be non-negative and sum to 1.
type Weights struct {
	Self float64 `json:"self"`
	PT   float64 `json:"pt"`
	IEG  float64 `json:"ieg"`
}

// Regime names a weight set. Callers choose the regime; the aggregator never
// infers it.
type Regime string

const (
	RegimeDashboard Regime = "dashboard"
	RegimeIndex     Regime = "index"
)

var (
	// DashboardWeights is the company dashboard composite: 50/30/20.
	DashboardWeights = Weights{Self: 0.5, PT: 0.3, IEG: 0.2}
	// IndexWeights is the company index and ranking composite: 60/20/20.
	IndexWeights = Weights{Self: 0.6, PT: 0.2, IEG: 0.2}
)

const weightTolerance = 0.001

func WeightsFor(r Regime) (Weights, error) {
	switch r {
	case RegimeDashboard:
		return DashboardWeights, nil
	case RegimeIndex:
		return IndexWeights, nil
	}
	return Weights{}, invalid("regime", string(r), fmt.Sprintf("must be %q or %q", RegimeDashboard, RegimeIndex))
}

func (w Weights) Sum() float64 { return w.Self + w.PT + w.IEG }

func (w Weights) Validate() error {
	parts := []struct {
		name string
		v    float64
	}{{"weights.self", w.Self}, {"weights.pt", w.PT}, {"weights.ieg", w.IEG}}
	for _, p := range parts {
		if !finite(p.v) || p.v < 0 {
			return invalid(p.name, p.v, "must be a non-negative number")
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return invalid("weights", w.Sum(), "must sum to 1")
	}
	return nil
}
