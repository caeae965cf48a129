// Package health turns raw market signals for a scanned token into a
// three-tier verdict with human-readable reasons. Scoring is additive over
// independent rules; all thresholds and weights are product-tuned values
// carried in a Rules struct rather than inferred.
package health

import "math"

// Label is the final verdict tier.
type Label string

const (
	LabelSafe   Label = "SAFE"
	LabelRisky  Label = "RISKY"
	LabelUnsafe Label = "UNSAFE"
)

// RiskLabel is the categorical risk classification reported by the
// external dex-info source.
type RiskLabel string

const (
	RiskSafe    RiskLabel = "safe"
	RiskCaution RiskLabel = "caution"
	RiskDanger  RiskLabel = "danger"
	RiskUnknown RiskLabel = "unknown"
)

// Signals carries the inputs to the scorer. Every numeric field is
// optional; a nil or non-finite value simply skips the rule that reads it.
type Signals struct {
	VolToMC           *float64
	LPLockedPct       *float64
	Tx24              *int
	PriceChange24hPct *float64
	RiskLabel         RiskLabel
	AgeMinutes        *float64
	MarketCap         *float64
}

// Verdict is the scoring result. Reasons preserve rule evaluation order.
type Verdict struct {
	Label   Label
	Score   float64
	Reasons []string
}

// Rules holds the baseline, per-rule thresholds and weights, and the
// final label cutoffs.
type Rules struct {
	Baseline float64

	VolToMCStrong        float64
	VolToMCStrongBonus   float64
	VolToMCModerate      float64
	VolToMCModerateBonus float64
	VolToMCWeakPenalty   float64

	LPLockedHigh       float64
	LPLockedHighBonus  float64
	LPLockedLow        float64
	LPLockedLowPenalty float64

	TxActive      int
	TxActiveBonus float64
	TxLow         int
	TxLowPenalty  float64

	PumpChangePct float64
	PumpPenalty   float64
	DumpChangePct float64
	DumpPenalty   float64

	RiskSafeBonus     float64
	RiskDangerPenalty float64

	YoungAgeMinutes float64
	LowMarketCap    float64
	AgeMCPenalty    float64

	SafeMin   float64
	UnsafeMax float64
}

// DefaultRules returns the tuned production weights.
func DefaultRules() Rules {
	return Rules{
		Baseline: 50,

		VolToMCStrong:        1,
		VolToMCStrongBonus:   20,
		VolToMCModerate:      0.2,
		VolToMCModerateBonus: 5,
		VolToMCWeakPenalty:   20,

		LPLockedHigh:       75,
		LPLockedHighBonus:  15,
		LPLockedLow:        25,
		LPLockedLowPenalty: 15,

		TxActive:      1000,
		TxActiveBonus: 5,
		TxLow:         50,
		TxLowPenalty:  5,

		PumpChangePct: 400,
		PumpPenalty:   10,
		DumpChangePct: -60,
		DumpPenalty:   10,

		RiskSafeBonus:     5,
		RiskDangerPenalty: 10,

		YoungAgeMinutes: 50,
		LowMarketCap:    20000,
		AgeMCPenalty:    10,

		SafeMin:   70,
		UnsafeMax: 40,
	}
}

// Score evaluates the signals with the default rules.
func Score(s Signals) Verdict {
	return DefaultRules().Score(s)
}

// Score applies every rule in a fixed order, accumulating score deltas and
// reasons, then maps the total to a label. Pure and deterministic.
func (r Rules) Score(s Signals) Verdict {
	score := r.Baseline
	var reasons []string

	if v, ok := finite(s.VolToMC); ok {
		switch {
		case v >= r.VolToMCStrong:
			score += r.VolToMCStrongBonus
			reasons = append(reasons, "volume/mc strong")
		case v >= r.VolToMCModerate:
			score += r.VolToMCModerateBonus
			reasons = append(reasons, "volume/mc moderate")
		default:
			score -= r.VolToMCWeakPenalty
			reasons = append(reasons, "volume/mc weak")
		}
	}

	if v, ok := finite(s.LPLockedPct); ok {
		if v >= r.LPLockedHigh {
			score += r.LPLockedHighBonus
			reasons = append(reasons, "LP locked high")
		} else if v < r.LPLockedLow {
			score -= r.LPLockedLowPenalty
			reasons = append(reasons, "LP lock low")
		}
	}

	if s.Tx24 != nil {
		if *s.Tx24 >= r.TxActive {
			score += r.TxActiveBonus
			reasons = append(reasons, "tx active")
		} else if *s.Tx24 < r.TxLow {
			score -= r.TxLowPenalty
			reasons = append(reasons, "tx low")
		}
	}

	if v, ok := finite(s.PriceChange24hPct); ok {
		if v > r.PumpChangePct {
			score -= r.PumpPenalty
			reasons = append(reasons, "extreme pump")
		}
		if v < r.DumpChangePct {
			score -= r.DumpPenalty
			reasons = append(reasons, "dumping")
		}
	}

	switch s.RiskLabel {
	case RiskSafe:
		score += r.RiskSafeBonus
		reasons = append(reasons, "dex risk: safe")
	case RiskDanger:
		score -= r.RiskDangerPenalty
		reasons = append(reasons, "dex risk: danger")
	}

	// Compound rule: both operands must be present and finite.
	if age, ok := finite(s.AgeMinutes); ok {
		if mc, ok := finite(s.MarketCap); ok {
			if age > r.YoungAgeMinutes && mc < r.LowMarketCap {
				score -= r.AgeMCPenalty
				reasons = append(reasons, "age>50m & mc<20k")
			}
		}
	}

	label := LabelRisky
	if score >= r.SafeMin {
		label = LabelSafe
	} else if score <= r.UnsafeMax {
		label = LabelUnsafe
	}

	return Verdict{Label: label, Score: score, Reasons: reasons}
}

func finite(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}
