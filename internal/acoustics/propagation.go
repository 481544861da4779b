package acoustics

import (
	"math"

	"subsim/internal/geo"
)

// Cavitation constants for ownship self-noise. Above the onset speed the
// propeller cavitates: a flat penalty plus a quadratic ramp capped at 40 dB.
const (
	cavitationOnsetKts = 18.0
	cavitationBaseDB   = 20.0
	cavitationRampCap  = 40.0
)

// NoiseLevel computes the total noise level NL in dB at the array for a
// given ownship speed: ambient noise for the sea state combined with self
// noise (flow noise plus cavitation) in the power domain.
func NoiseLevel(speed geo.Knots, ctx Context) float64 {
	ambient := ctx.AmbientNoise()
	v := float64(speed)
	self := ctx.SelfNoiseBase + v*v*ctx.FlowNoiseCoeff
	if v > cavitationOnsetKts {
		d := v - cavitationOnsetKts
		self += cavitationBaseDB + math.Min(cavitationRampCap, d*d*0.3)
	}
	return ToDB(ToPower(ambient) + ToPower(self))
}

// TransmissionLoss computes one-way TL in dB over a range in yards:
// spherical spreading plus absorption, with a convergence-zone bonus in
// deep water. Range is floored at 1 yard.
func TransmissionLoss(rng geo.Yards, ctx Context) float64 {
	r := float64(rng)
	if r < 1 {
		r = 1
	}
	tl := 20*math.Log10(r) + ctx.AbsorptionDBPerYard*r
	if ctx.DeepWater && r >= ctx.CZRangeMinYds && r <= ctx.CZRangeMaxYds {
		tl -= ctx.CZBonusDB
	}
	return tl
}

// SignalExcess evaluates the passive sonar equation SE = SL - TL - NL + DI.
// Callers threshold on the result; an inaudible contact simply yields a
// very negative excess.
func SignalExcess(sourceLevel float64, rng geo.Yards, noiseLevel float64, ctx Context) float64 {
	received := sourceLevel - TransmissionLoss(rng, ctx)
	return received - noiseLevel + ctx.DirectivityIndex
}

// ActiveOneWay is the one-way active equation: the level at which a ping
// from a transmitter at the given range is intercepted.
func ActiveOneWay(sourceLevel float64, rng geo.Yards, noiseLevel float64, ctx Context) float64 {
	return sourceLevel - TransmissionLoss(rng, ctx) - noiseLevel + ctx.DirectivityIndex
}

// ActiveTwoWay is the echo equation: transmission loss applies on both
// legs and the ownship target strength is added.
func ActiveTwoWay(sourceLevel float64, rng geo.Yards, noiseLevel float64, ctx Context) float64 {
	tl := TransmissionLoss(rng, ctx)
	return sourceLevel - 2*tl + ctx.OwnTargetStrength - noiseLevel + ctx.DirectivityIndex
}
