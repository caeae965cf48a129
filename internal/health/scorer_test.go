package health

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestScoreStrongToken(t *testing.T) {
	signals := Signals{
		VolToMC:           fptr(1.5),
		LPLockedPct:       fptr(80),
		Tx24:              iptr(1200),
		PriceChange24hPct: fptr(5),
		RiskLabel:         RiskSafe,
	}

	verdict := Score(signals)

	// 50 + 20 + 15 + 5 + 5 = 95
	assert.Equal(t, 95.0, verdict.Score)
	assert.Equal(t, LabelSafe, verdict.Label)
	assert.Equal(t, []string{
		"volume/mc strong",
		"LP locked high",
		"tx active",
		"dex risk: safe",
	}, verdict.Reasons)
}

func TestScoreWeakToken(t *testing.T) {
	signals := Signals{
		VolToMC:           fptr(0.1),
		LPLockedPct:       fptr(10),
		Tx24:              iptr(10),
		PriceChange24hPct: fptr(500),
		RiskLabel:         RiskDanger,
		AgeMinutes:        fptr(60),
		MarketCap:         fptr(10000),
	}

	verdict := Score(signals)

	// 50 - 20 - 15 - 5 - 10 - 10 - 10 = -20
	assert.Equal(t, -20.0, verdict.Score)
	assert.Equal(t, LabelUnsafe, verdict.Label)
}

func TestScoreEmptySignals(t *testing.T) {
	verdict := Score(Signals{})

	assert.Equal(t, 50.0, verdict.Score)
	assert.Equal(t, LabelRisky, verdict.Label)
	assert.Empty(t, verdict.Reasons)
}

func TestScoreDeterministic(t *testing.T) {
	signals := Signals{
		VolToMC:     fptr(0.5),
		LPLockedPct: fptr(50),
		Tx24:        iptr(500),
		RiskLabel:   RiskCaution,
	}

	first := Score(signals)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(signals))
	}
}

func TestScoreLabelThresholds(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		score float64
		label Label
	}{
		{"exactly safe", 70, LabelSafe},
		{"just below safe", 69, LabelRisky},
		{"exactly unsafe", 40, LabelUnsafe},
		{"just above unsafe", 41, LabelRisky},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rules
			r.Baseline = tt.score
			verdict := r.Score(Signals{})
			assert.Equal(t, tt.label, verdict.Label)
		})
	}
}

func TestScoreNonFiniteInputsSkipRules(t *testing.T) {
	signals := Signals{
		VolToMC:           fptr(math.NaN()),
		LPLockedPct:       fptr(math.Inf(1)),
		PriceChange24hPct: fptr(math.Inf(-1)),
	}

	verdict := Score(signals)

	assert.Equal(t, 50.0, verdict.Score)
	assert.Empty(t, verdict.Reasons)
}

func TestScoreModerateVolume(t *testing.T) {
	verdict := Score(Signals{VolToMC: fptr(0.5)})

	assert.Equal(t, 55.0, verdict.Score)
	assert.Equal(t, []string{"volume/mc moderate"}, verdict.Reasons)
}

func TestScoreLPLockMiddleBandNeutral(t *testing.T) {
	verdict := Score(Signals{LPLockedPct: fptr(50)})

	assert.Equal(t, 50.0, verdict.Score)
	assert.Empty(t, verdict.Reasons)
}

func TestScoreAgeMarketCapCompoundRule(t *testing.T) {
	t.Run("both conditions met", func(t *testing.T) {
		verdict := Score(Signals{AgeMinutes: fptr(60), MarketCap: fptr(10000)})
		require.Equal(t, 40.0, verdict.Score)
		assert.Equal(t, []string{"age>50m & mc<20k"}, verdict.Reasons)
	})

	t.Run("age missing skips rule", func(t *testing.T) {
		verdict := Score(Signals{MarketCap: fptr(10000)})
		assert.Equal(t, 50.0, verdict.Score)
		assert.Empty(t, verdict.Reasons)
	})

	t.Run("market cap missing skips rule", func(t *testing.T) {
		verdict := Score(Signals{AgeMinutes: fptr(60)})
		assert.Equal(t, 50.0, verdict.Score)
		assert.Empty(t, verdict.Reasons)
	})

	t.Run("young token keeps score", func(t *testing.T) {
		verdict := Score(Signals{AgeMinutes: fptr(30), MarketCap: fptr(10000)})
		assert.Equal(t, 50.0, verdict.Score)
	})
}

func TestScorePumpAndDumpIndependent(t *testing.T) {
	pump := Score(Signals{PriceChange24hPct: fptr(450)})
	assert.Equal(t, 40.0, pump.Score)
	assert.Equal(t, []string{"extreme pump"}, pump.Reasons)

	dump := Score(Signals{PriceChange24hPct: fptr(-80)})
	assert.Equal(t, 40.0, dump.Score)
	assert.Equal(t, []string{"dumping"}, dump.Reasons)
}
