package geo

import "math"

// Bearings are compass degrees: 0 is north (+y), increasing clockwise.

// NormalizeBearing wraps a bearing into [0, 360).
func NormalizeBearing(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// BearingBetween returns the compass bearing from (x1,y1) to (x2,y2).
func BearingBetween(x1, y1, x2, y2 Feet) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return NormalizeBearing(math.Atan2(dx, dy) * 180 / math.Pi)
}

// RelativeBearing returns the bearing to a target relative to a vessel's
// heading, in [0, 360). 180 is dead astern.
func RelativeBearing(heading, bearing float64) float64 {
	return NormalizeBearing(bearing - heading)
}

// AngleDiff returns the signed smallest difference from one bearing to
// another, in (-180, 180].
func AngleDiff(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// Reciprocal returns the bearing pointing the opposite way.
func Reciprocal(deg float64) float64 {
	return NormalizeBearing(deg + 180)
}

// TurnToward steps a heading toward a desired bearing, limited to maxStep
// degrees, taking the shorter way around.
func TurnToward(heading, desired, maxStep float64) float64 {
	d := AngleDiff(heading, desired)
	if math.Abs(d) <= maxStep {
		return NormalizeBearing(desired)
	}
	if d > 0 {
		return NormalizeBearing(heading + maxStep)
	}
	return NormalizeBearing(heading - maxStep)
}

// Offset moves a point dist feet along a compass bearing.
func Offset(x, y Feet, bearing float64, dist Feet) (Feet, Feet) {
	rad := bearing * math.Pi / 180
	return x + Feet(float64(dist)*math.Sin(rad)), y + Feet(float64(dist)*math.Cos(rad))
}
