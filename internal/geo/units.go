// Unit types and conversions shared across the simulation core.
package geo

import "math"

// Conversion constants. Positions are kept in feet, sonar ranges in yards,
// vessel speeds in knots; these are the only places the factors appear.
const (
	FeetPerYard       = 3.0
	FeetPerSecPerKnot = 1.68781
)

// Feet is a linear distance in feet.
type Feet float64

// Yards is a linear distance in yards.
type Yards float64

// Knots is a speed in nautical miles per hour.
type Knots float64

// YardsFromFeet converts a distance in feet to yards.
func YardsFromFeet(f Feet) Yards {
	return Yards(float64(f) / FeetPerYard)
}

// FeetFromYards converts a distance in yards to feet.
func FeetFromYards(y Yards) Feet {
	return Feet(float64(y) * FeetPerYard)
}

// FeetPerSecond returns the speed in feet per second.
func (k Knots) FeetPerSecond() float64 {
	return float64(k) * FeetPerSecPerKnot
}

// Distance returns the straight-line distance in feet between two points.
func Distance(x1, y1, x2, y2 Feet) Feet {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return Feet(math.Hypot(dx, dy))
}

// RangeYards returns the distance between two points in yards.
func RangeYards(x1, y1, x2, y2 Feet) Yards {
	return YardsFromFeet(Distance(x1, y1, x2, y2))
}
