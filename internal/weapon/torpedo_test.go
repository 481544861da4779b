package weapon

import (
	"math"
	"testing"

	"subsim/internal/config"
	"subsim/internal/contact"
	"subsim/internal/geo"
)

func testGuidance() Guidance {
	return NewGuidance(config.Default().Torpedo)
}

func runningTorp() Torpedo {
	return Torpedo{
		ID:        "t1",
		Heading:   0,
		GyroAngle: 0,
		Speed:     40,
		Status:    StatusRunning,
	}
}

func TestLaunchSearchMode(t *testing.T) {
	cfg := config.Default().Torpedo
	torp := Launch(0, 0, 0, "c1", false, SearchPassive, cfg)
	if torp.SearchMode != SearchPassive {
		t.Errorf("search mode = %v, want PASSIVE", torp.SearchMode)
	}
	torp = Launch(0, 0, 0, "c1", false, "", cfg)
	if torp.SearchMode != SearchActive {
		t.Errorf("empty search mode = %v, want ACTIVE default", torp.SearchMode)
	}
}

func TestLaunchDefaults(t *testing.T) {
	cfg := config.Default().Torpedo
	torp := Launch(100, 200, 45, "c1", false, SearchActive, cfg)
	if torp.ID == "" {
		t.Error("launch did not assign an id")
	}
	if torp.Status != StatusRunning {
		t.Errorf("status = %v, want RUNNING", torp.Status)
	}
	if torp.GyroAngle != 45 || torp.Heading != 45 {
		t.Errorf("gyro/heading = %v/%v, want 45/45", torp.GyroAngle, torp.Heading)
	}
	if torp.EnableRange != geo.Yards(cfg.EnableRangeYds) {
		t.Errorf("enable range = %v, want %v", torp.EnableRange, cfg.EnableRangeYds)
	}
}

func TestTransitHoldsGyroUnderTurnLimit(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.Heading = 90
	torp.GyroAngle = 0
	torp, _ = g.Update(torp, WorldView{}, 1)
	// One second at the configured turn rate.
	if math.Abs(torp.Heading-84) > 1e-9 {
		t.Errorf("heading after one tick = %v, want 84", torp.Heading)
	}
}

func TestAcceleratesToMaxSpeed(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.Speed = 30
	for i := 0; i < 60; i++ {
		torp, _ = g.Update(torp, WorldView{}, 1)
	}
	if torp.Speed != geo.Knots(config.Default().Torpedo.MaxSpeedKts) {
		t.Errorf("speed = %v, want max %v", torp.Speed, config.Default().Torpedo.MaxSpeedKts)
	}
}

func TestSnakeSearchOscillates(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000 // past enable, nothing to acquire
	seen := map[float64]bool{}
	minH, maxH := 360.0, -360.0
	for i := 0; i < 40; i++ {
		torp, _ = g.Update(torp, WorldView{}, 1)
		h := geo.AngleDiff(0, torp.Heading)
		seen[torp.Heading] = true
		minH = math.Min(minH, h)
		maxH = math.Max(maxH, h)
	}
	if len(seen) < 5 {
		t.Errorf("snake search produced a near-constant heading: %v", seen)
	}
	if minH >= 0 || maxH <= 0 {
		t.Errorf("snake search did not weave both sides of the gyro: [%v, %v]", minH, maxH)
	}
	if minH < -35 || maxH > 35 {
		t.Errorf("snake search exceeded search width: [%v, %v]", minH, maxH)
	}
}

func TestProximityFuseFiresOnCrossingTick(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000
	torp.ActiveTargetID = "c1"
	w := WorldView{Contacts: []contact.Contact{
		{ID: "c1", X: 0, Y: 100, Alive: true},
	}}
	torp, col := g.Update(torp, w, 1)
	if torp.Status != StatusExploded {
		t.Fatalf("status = %v, want EXPLODED", torp.Status)
	}
	if col == nil {
		t.Fatal("expected a collision event on the crossing tick")
	}
	if col.TargetID != "c1" {
		t.Errorf("collision target = %v, want c1", col.TargetID)
	}
	// Detonation point sits on the fuse circle, not at the target.
	d := geo.Distance(col.X, col.Y, 0, 100)
	if math.Abs(float64(d)-config.Default().Torpedo.FuseRadiusFt) > 1 {
		t.Errorf("detonation %v ft from target, want fuse radius", d)
	}
}

func TestSeekerPrefersDesignatedTarget(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000
	torp.DesignatedTargetID = "far"
	w := WorldView{Contacts: []contact.Contact{
		{ID: "near", X: 0, Y: 1500, Alive: true},
		{ID: "far", X: 0, Y: 6000, Alive: true},
	}}
	torp, _ = g.Update(torp, w, 1)
	if torp.ActiveTargetID != "far" {
		t.Errorf("acquired %v, want designated target far", torp.ActiveTargetID)
	}
}

func TestSeekerFallsBackToNearest(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000
	torp.DesignatedTargetID = "gone"
	w := WorldView{Contacts: []contact.Contact{
		{ID: "near", X: 0, Y: 1500, Alive: true},
		{ID: "farther", X: 0, Y: 4500, Alive: true},
	}}
	torp, _ = g.Update(torp, w, 1)
	if torp.ActiveTargetID != "near" {
		t.Errorf("acquired %v, want near", torp.ActiveTargetID)
	}
}

func TestSeekerRespectsFieldOfView(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000
	// Contact dead astern: inside range, outside the seeker cone.
	w := WorldView{Contacts: []contact.Contact{
		{ID: "astern", X: 0, Y: -1500, Alive: true},
	}}
	torp, _ = g.Update(torp, w, 1)
	if torp.ActiveTargetID != "" {
		t.Errorf("acquired %v outside field of view", torp.ActiveTargetID)
	}
}

func TestHostileTorpedoAcquiresOwnship(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000
	torp.Hostile = true
	torp.DesignatedTargetID = contact.OwnshipID
	w := WorldView{Ownship: contact.Ownship{X: 0, Y: 3000}}
	torp, _ = g.Update(torp, w, 1)
	if torp.ActiveTargetID != contact.OwnshipID {
		t.Errorf("acquired %v, want OWNSHIP", torp.ActiveTargetID)
	}
}

func TestLockDropsWhenTargetDestroyed(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = 2000
	torp.ActiveTargetID = "dead"
	w := WorldView{Contacts: []contact.Contact{
		{ID: "dead", X: 0, Y: 1000, Alive: false},
	}}
	torp, col := g.Update(torp, w, 1)
	if col != nil {
		t.Fatal("collision against a destroyed target")
	}
	if torp.ActiveTargetID != "" {
		t.Errorf("stale lock kept: %v", torp.ActiveTargetID)
	}
	if torp.Status != StatusRunning {
		t.Errorf("status = %v, want RUNNING", torp.Status)
	}
}

func TestMaxRangeDud(t *testing.T) {
	g := testGuidance()
	torp := runningTorp()
	torp.DistanceTraveled = geo.Yards(config.Default().Torpedo.MaxRangeYds) - 5
	torp, _ = g.Update(torp, WorldView{}, 1)
	if torp.Status != StatusDud {
		t.Fatalf("status = %v, want DUD", torp.Status)
	}
	// Dud torpedoes are inert.
	before := torp
	torp, col := g.Update(torp, WorldView{}, 1)
	if col != nil || torp != before {
		t.Error("dud torpedo still being guided")
	}
}
