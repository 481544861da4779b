// Package weapon implements torpedo kinematics and guidance: gyro transit,
// seeker acquisition, snake search, pure-pursuit homing, and the proximity
// fuse.
package weapon

import (
	"math"

	"github.com/google/uuid"

	"subsim/internal/config"
	"subsim/internal/contact"
	"subsim/internal/geo"
)

// Status of a torpedo in the water.
type Status string

const (
	StatusRunning  Status = "RUNNING"
	StatusDud      Status = "DUD"
	StatusExploded Status = "EXPLODED"
)

// SearchMode selects the seeker head behavior after enable.
type SearchMode string

const (
	SearchActive  SearchMode = "ACTIVE"
	SearchPassive SearchMode = "PASSIVE"
)

// Torpedo is one weapon in the water. Guidance takes it by value and
// returns an updated snapshot.
type Torpedo struct {
	ID string

	X, Y    geo.Feet
	Heading float64
	Speed   geo.Knots

	// GyroAngle is the preset transit heading flown until enable.
	GyroAngle float64

	Status     Status
	SearchMode SearchMode

	EnableRange      geo.Yards
	DistanceTraveled geo.Yards

	// DesignatedTargetID is operator-assigned; ActiveTargetID is what the
	// seeker actually acquired. They differ when the seeker picks up a
	// closer target or loses the designated one.
	DesignatedTargetID string
	ActiveTargetID     string

	// Hostile marks weapons fired at ownship by the opposing force.
	Hostile bool
}

// Launch builds a running torpedo at a launch point on a gyro heading.
// An empty search mode defaults to active.
func Launch(x, y geo.Feet, gyro float64, targetID string, hostile bool, mode SearchMode, cfg config.TorpedoConfig) Torpedo {
	if mode == "" {
		mode = SearchActive
	}
	return Torpedo{
		ID:                 uuid.New().String(),
		X:                  x,
		Y:                  y,
		Heading:            geo.NormalizeBearing(gyro),
		GyroAngle:          geo.NormalizeBearing(gyro),
		Speed:              geo.Knots(cfg.LaunchSpeedKts),
		Status:             StatusRunning,
		SearchMode:         mode,
		EnableRange:        geo.Yards(cfg.EnableRangeYds),
		DesignatedTargetID: targetID,
		Hostile:            hostile,
	}
}

// Collision reports a proximity-fuse hit for the host to apply.
type Collision struct {
	TorpedoID string
	TargetID  string
	X, Y      geo.Feet
}

// WorldView is what the seeker can see: ownship plus the live contact
// list.
type WorldView struct {
	Ownship  contact.Ownship
	Contacts []contact.Contact
}

// Guidance evaluates torpedo physics each tick.
type Guidance struct {
	cfg config.TorpedoConfig
}

// NewGuidance builds a guidance evaluator from weapon tuning.
func NewGuidance(cfg config.TorpedoConfig) Guidance {
	return Guidance{cfg: cfg}
}

// Update advances one torpedo by dt seconds and reports a collision if the
// proximity fuse fired this tick. Non-running torpedoes are returned
// unchanged.
func (g Guidance) Update(t Torpedo, w WorldView, dt float64) (Torpedo, *Collision) {
	if t.Status != StatusRunning {
		return t, nil
	}

	t.Speed += geo.Knots(g.cfg.AccelKtsPerSec * dt)
	if t.Speed > geo.Knots(g.cfg.MaxSpeedKts) {
		t.Speed = geo.Knots(g.cfg.MaxSpeedKts)
	}

	enabled := t.DistanceTraveled >= t.EnableRange
	if enabled {
		t = g.acquire(t, w)
	} else {
		t.ActiveTargetID = ""
	}

	var homingX, homingY geo.Feet
	homing := false
	if t.ActiveTargetID != "" {
		if tx, ty, ok := targetPosition(t.ActiveTargetID, w); ok {
			// Pure pursuit: point straight at the target, no turn limit.
			t.Heading = geo.BearingBetween(t.X, t.Y, tx, ty)
			homingX, homingY = tx, ty
			homing = true
		} else {
			// Lock target gone; fall back to search silently.
			t.ActiveTargetID = ""
		}
	}
	if !homing {
		desired := t.GyroAngle
		if enabled {
			// Snake search: weave about the gyro heading as a function of
			// distance run, sweeping for a target.
			phase := 2 * math.Pi * float64(t.DistanceTraveled) / g.cfg.SnakePeriodYds
			desired = geo.NormalizeBearing(t.GyroAngle + g.cfg.SnakeWidthDeg*math.Sin(phase))
		}
		t.Heading = geo.TurnToward(t.Heading, desired, g.cfg.TurnRateDegPerSec*dt)
	}

	stepFt := geo.Feet(t.Speed.FeetPerSecond() * dt)
	prevX, prevY := t.X, t.Y
	t.X, t.Y = geo.Offset(t.X, t.Y, t.Heading, stepFt)
	t.DistanceTraveled += geo.YardsFromFeet(stepFt)

	if homing {
		if hx, hy, hit := segmentHitsCircle(prevX, prevY, t.X, t.Y, homingX, homingY, geo.Feet(g.cfg.FuseRadiusFt)); hit {
			t.Status = StatusExploded
			t.X, t.Y = hx, hy
			return t, &Collision{TorpedoID: t.ID, TargetID: t.ActiveTargetID, X: hx, Y: hy}
		}
	}

	if t.DistanceTraveled > geo.Yards(g.cfg.MaxRangeYds) {
		t.Status = StatusDud
	}
	return t, nil
}

// acquire runs seeker acquisition: the designated target is preferred when
// it meets the range and field-of-view gate, otherwise the nearest live
// contact that does.
func (g Guidance) acquire(t Torpedo, w WorldView) Torpedo {
	if t.ActiveTargetID != "" {
		return t
	}
	if t.DesignatedTargetID != "" {
		if tx, ty, ok := targetPosition(t.DesignatedTargetID, w); ok && g.inSeekerGate(t, tx, ty) {
			t.ActiveTargetID = t.DesignatedTargetID
			return t
		}
	}

	best := ""
	bestDist := geo.Yards(math.MaxFloat64)
	consider := func(id string, x, y geo.Feet) {
		if !g.inSeekerGate(t, x, y) {
			return
		}
		d := geo.RangeYards(t.X, t.Y, x, y)
		if d < bestDist {
			best, bestDist = id, d
		}
	}
	for _, c := range w.Contacts {
		if !c.Alive {
			continue
		}
		consider(c.ID, c.X, c.Y)
	}
	if t.Hostile {
		consider(contact.OwnshipID, w.Ownship.X, w.Ownship.Y)
	}
	t.ActiveTargetID = best
	return t
}

func (g Guidance) inSeekerGate(t Torpedo, x, y geo.Feet) bool {
	if geo.RangeYards(t.X, t.Y, x, y) > geo.Yards(g.cfg.SeekerRangeYds) {
		return false
	}
	bearing := geo.BearingBetween(t.X, t.Y, x, y)
	return math.Abs(geo.AngleDiff(t.Heading, bearing)) <= g.cfg.SeekerFOVDeg/2
}

func targetPosition(id string, w WorldView) (geo.Feet, geo.Feet, bool) {
	if id == contact.OwnshipID {
		return w.Ownship.X, w.Ownship.Y, true
	}
	for _, c := range w.Contacts {
		if c.ID == id {
			if !c.Alive {
				return 0, 0, false
			}
			return c.X, c.Y, true
		}
	}
	return 0, 0, false
}

// segmentHitsCircle tests the torpedo's travel segment against the fuse
// circle around the target and returns the first crossing point.
func segmentHitsCircle(x1, y1, x2, y2, cx, cy geo.Feet, radius geo.Feet) (geo.Feet, geo.Feet, bool) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	fx := float64(x1 - cx)
	fy := float64(y1 - cy)
	r := float64(radius)

	a := dx*dx + dy*dy
	if a < 1e-12 {
		if fx*fx+fy*fy <= r*r {
			return x1, y1, true
		}
		return 0, 0, false
	}
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	var s float64
	switch {
	case t1 >= 0 && t1 <= 1:
		s = t1
	case t2 >= 0 && t2 <= 1:
		s = t2
	case t1 < 0 && t2 > 1:
		// Already inside the fuse radius for the whole step.
		s = 0
	default:
		return 0, 0, false
	}
	return x1 + geo.Feet(dx*s), y1 + geo.Feet(dy*s), true
}
