// Package acoustics implements the passive and active sonar equations and
// the beamformed bearing-power array behind the waterfall display.
package acoustics

import (
	"math"

	"subsim/internal/config"
)

// Context carries the equipment and environment parameters every acoustic
// calculation depends on. It is an immutable value: reconfiguration means
// building a new Context, never mutating a shared one.
type Context struct {
	NumBeams          int
	BeamWidthDeg      float64
	BeamSpacingDeg    float64
	DirectivityIndex  float64
	SelfNoiseBase     float64
	FlowNoiseCoeff    float64
	OwnTargetStrength float64

	SeaState            int
	DeepWater           bool
	AbsorptionDBPerYard float64
	CZRangeMinYds       float64
	CZRangeMaxYds       float64
	CZBonusDB           float64
	AmbientTable        [7]float64
}

// NewContext builds a Context from configuration sections.
func NewContext(eq config.EquipmentConfig, env config.EnvironmentConfig) Context {
	ctx := Context{
		NumBeams:          eq.NumBeams,
		BeamWidthDeg:      eq.BeamWidthDeg,
		BeamSpacingDeg:    eq.BeamSpacingDeg,
		DirectivityIndex:  eq.DirectivityIndex,
		SelfNoiseBase:     eq.SelfNoiseBase,
		FlowNoiseCoeff:    eq.FlowNoiseCoeff,
		OwnTargetStrength: eq.OwnTargetStrength,

		SeaState:            env.SeaState,
		DeepWater:           env.DeepWater,
		AbsorptionDBPerYard: env.AbsorptionDBPerYard,
		CZRangeMinYds:       env.CZRangeMinYds,
		CZRangeMaxYds:       env.CZRangeMaxYds,
		CZBonusDB:           env.CZBonusDB,
	}
	for i := 0; i < len(ctx.AmbientTable) && i < len(env.AmbientTable); i++ {
		ctx.AmbientTable[i] = env.AmbientTable[i]
	}
	return ctx
}

// AmbientNoise returns the ambient noise level in dB for the context's sea
// state, clamped into 0-6 on read.
func (c Context) AmbientNoise() float64 {
	ss := c.SeaState
	if ss < 0 {
		ss = 0
	} else if ss > 6 {
		ss = 6
	}
	return c.AmbientTable[ss]
}

// ToPower converts a dB level to linear power. Accumulation across sources
// is only valid in the linear domain.
func ToPower(db float64) float64 {
	return math.Pow(10, db/10)
}

// ToDB converts linear power back to dB. Non-positive power maps to 0 dB
// rather than -Inf.
func ToDB(power float64) float64 {
	if power <= 0 {
		return 0
	}
	return 10 * math.Log10(power)
}
