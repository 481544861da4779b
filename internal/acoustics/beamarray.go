package acoustics

import (
	"math"
	"math/rand"

	"subsim/internal/geo"
)

// kernelReach is how far the beam-response window extends, in multiples of
// the effective beam width.
const kernelReach = 2.5

// BeamArray is the fixed-resolution bearing-power buffer. Bins hold linear
// power, never dB; the buffer is reused across ticks rather than
// reallocated.
type BeamArray struct {
	beams       []float64
	numBeams    int
	beamWidth   float64
	beamSpacing float64
	rng         *rand.Rand
}

// NewBeamArray allocates the power buffer for a context's beam grid. The
// random source drives the background dither and is injected so runs are
// reproducible.
func NewBeamArray(ctx Context, rng *rand.Rand) *BeamArray {
	n := ctx.NumBeams
	if n <= 0 {
		n = int(360 / ctx.BeamSpacingDeg)
	}
	return &BeamArray{
		beams:       make([]float64, n),
		numBeams:    n,
		beamWidth:   ctx.BeamWidthDeg,
		beamSpacing: ctx.BeamSpacingDeg,
		rng:         rng,
	}
}

// NumBeams returns the number of bearing bins.
func (b *BeamArray) NumBeams() int { return b.numBeams }

// BeamSpacing returns the angular width of one bin in degrees.
func (b *BeamArray) BeamSpacing() float64 { return b.beamSpacing }

// Clear fills every bin with the ambient noise power plus a small dither
// to give the display its background grain. Dither never drives a bin
// negative.
func (b *BeamArray) Clear(ambientDB float64) {
	base := ToPower(ambientDB)
	for i := range b.beams {
		p := base
		if b.rng != nil {
			p *= 1 + 0.1*(b.rng.Float64()*2-1)
		}
		if p < 0 {
			p = 0
		}
		b.beams[i] = p
	}
}

// AddSignal accumulates a received level into the bins around a bearing,
// weighted by a Gaussian beam-response kernel. The window wraps across the
// 0/360 boundary.
func (b *BeamArray) AddSignal(bearing, receivedLevelDB, effectiveBeamWidth float64) {
	bearing = geo.NormalizeBearing(bearing)
	width := effectiveBeamWidth
	if width <= 0 {
		width = b.beamWidth
	}
	power := ToPower(receivedLevelDB)
	sigma := width / 2

	reach := int(math.Ceil(kernelReach * width / b.beamSpacing))
	center := int(math.Round(bearing / b.beamSpacing))
	for off := -reach; off <= reach; off++ {
		idx := ((center+off)%b.numBeams + b.numBeams) % b.numBeams
		binBearing := float64(idx) * b.beamSpacing
		d := geo.AngleDiff(binBearing, bearing)
		w := math.Exp(-(d * d) / (2 * sigma * sigma))
		b.beams[idx] += power * w
		if b.beams[idx] < 0 {
			b.beams[idx] = 0
		}
	}
}

// DB returns the interpolated level in dB at an arbitrary bearing. Power is
// interpolated linearly between the two nearest bins before conversion;
// zero power maps to the 0 dB floor.
func (b *BeamArray) DB(bearing float64) float64 {
	bearing = geo.NormalizeBearing(bearing)
	pos := bearing / b.beamSpacing
	i0 := int(math.Floor(pos)) % b.numBeams
	i1 := (i0 + 1) % b.numBeams
	frac := pos - math.Floor(pos)
	p := b.beams[i0]*(1-frac) + b.beams[i1]*frac
	db := ToDB(p)
	if db < 0 {
		db = 0
	}
	return db
}
