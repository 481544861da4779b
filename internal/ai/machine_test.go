package ai

import (
	"math"
	"testing"

	"subsim/internal/config"
	"subsim/internal/contact"
	"subsim/internal/geo"
	"subsim/internal/weapon"
)

func testMachine() *Machine {
	cfg := config.Default()
	return NewMachine(cfg.AI, NewDetector(cfg.Detector))
}

// escort places a hostile escort 5000 yd due west of an ownship at the
// origin, so the bearing back to ownship is 090.
func escort() contact.Contact {
	return contact.Contact{
		ID:             "s2",
		Classification: contact.ClassEscort,
		X:              -15000,
		Y:              0,
		Heading:        90,
		Sensitivity:    1e6,
		Mode:           contact.Patrol(),
		Alive:          true,
	}
}

func loudOwnship() contact.Ownship {
	return contact.Ownship{NoiseLevel: 500}
}

func TestPatrolToApproachOnPositiveExcess(t *testing.T) {
	m := testMachine()
	c := escort()
	c, _ = m.Evaluate(c, loudOwnship(), nil, 1)
	if c.Mode.Tag != contact.ModeApproach {
		t.Errorf("mode = %v, want APPROACH", c.Mode.Tag)
	}
}

func TestPatrolHoldsAtZeroExcess(t *testing.T) {
	m := testMachine()
	c := escort()
	// Power-of-two geometry so the excess is exactly zero: range 4096 yd,
	// sensitivity 2^24, noise 1 gives strength 1.0 against threshold 1.0.
	c.X = -12288
	c.Sensitivity = 1 << 24
	own := contact.Ownship{NoiseLevel: 1}
	se := NewDetector(config.Default().Detector).OwnshipSignalExcess(c, own)
	if se != 0 {
		t.Fatalf("test setup: se = %v, want exactly 0", se)
	}
	c, _ = m.Evaluate(c, own, nil, 1)
	if c.Mode.Tag != contact.ModePatrol {
		t.Errorf("mode = %v, want PATROL at the exclusive boundary", c.Mode.Tag)
	}
}

func TestApproachLostContactBoundaryIsExclusive(t *testing.T) {
	cfg := config.Default()
	m := testMachine()
	c := escort()
	c.Mode = contact.Approach()
	c.CooldownUntil = 1e9 // keep the close-range branch out of the way

	// Power-of-two geometry puts the excess exactly on the lost-contact
	// threshold: strength 0.5 against threshold 1.0 gives se -0.5.
	c.X = -12288
	c.Sensitivity = 1 << 24
	own := contact.Ownship{NoiseLevel: 0.5}
	se := NewDetector(cfg.Detector).OwnshipSignalExcess(c, own)
	if se != cfg.AI.LostContactThreshold {
		t.Fatalf("test setup: se = %v, want %v", se, cfg.AI.LostContactThreshold)
	}

	c, _ = m.Evaluate(c, own, nil, 1)
	if c.Mode.Tag != contact.ModeApproach {
		t.Errorf("mode = %v, want APPROACH exactly at the threshold", c.Mode.Tag)
	}

	// Just below the threshold the contact is lost.
	own.NoiseLevel *= 0.99
	c2 := escort()
	c2.Mode = contact.Approach()
	c2.CooldownUntil = 1e9
	c2.X = -12288
	c2.Sensitivity = 1 << 24
	c2, _ = m.Evaluate(c2, own, nil, 1)
	if c2.Mode.Tag != contact.ModePatrol {
		t.Errorf("mode = %v, want PATROL below the threshold", c2.Mode.Tag)
	}
}

func TestApproachOrdersLeadInterceptAtSilentSpeed(t *testing.T) {
	cfg := config.Default()
	m := testMachine()
	c := escort()
	c.Mode = contact.Approach()
	c.CooldownUntil = 1e9
	own := loudOwnship()
	own.Heading = 0
	own.Speed = 10
	c, _ = m.Evaluate(c, own, nil, 1)
	if c.OrderedSpeed != geo.Knots(cfg.AI.SilentSpeedKts) {
		t.Errorf("ordered speed = %v, want silent %v", c.OrderedSpeed, cfg.AI.SilentSpeedKts)
	}
	// Ownship is heading north; the lead point is north of it, so the
	// ordered heading leans north of the direct 090 bearing.
	if c.OrderedHeading >= 90 || c.OrderedHeading <= 45 {
		t.Errorf("ordered heading = %v, want a lead between 45 and 90", c.OrderedHeading)
	}
}

func TestApproachToProsecuteEnablesPinging(t *testing.T) {
	m := testMachine()
	c := escort()
	c.Mode = contact.Approach()
	c.CooldownUntil = 1e9
	c, _ = m.Evaluate(c, loudOwnship(), nil, 1)
	if c.Mode.Tag != contact.ModeProsecute {
		t.Fatalf("mode = %v, want PROSECUTE", c.Mode.Tag)
	}
	if !c.Pinging {
		t.Error("prosecute should enable active pinging")
	}
	if c.Mode.TrackingSeconds != 0 {
		t.Errorf("tracking starts at %v, want 0", c.Mode.TrackingSeconds)
	}
}

func TestApproachToAttackInsideCloseRange(t *testing.T) {
	m := testMachine()
	c := escort()
	c.Mode = contact.Approach()
	c, _ = m.Evaluate(c, loudOwnship(), nil, 1)
	if c.Mode.Tag != contact.ModeAttack {
		t.Errorf("mode = %v, want ATTACK inside close range with cooldown clear", c.Mode.Tag)
	}
}

func TestProsecuteAccumulatesTrackingThenAttacks(t *testing.T) {
	cfg := config.Default()
	m := testMachine()
	c := escort()
	c.Mode = contact.Prosecute(0)
	own := loudOwnship()
	now := 1.0
	for i := 0; ; i++ {
		if i > 100 {
			t.Fatal("never reached ATTACK")
		}
		c, _ = m.Evaluate(c, own, nil, now)
		if c.Mode.Tag == contact.ModeAttack {
			break
		}
		if c.Mode.Tag != contact.ModeProsecute {
			t.Fatalf("left PROSECUTE for %v", c.Mode.Tag)
		}
		now += cfg.AI.EvalIntervalSec
	}
	if now < cfg.AI.TrackTimeSec {
		t.Errorf("attacked after %v s, want at least the track time %v", now, cfg.AI.TrackTimeSec)
	}
	if c.OrderedSpeed != geo.Knots(cfg.AI.HuntSpeedKts) {
		t.Errorf("ordered speed = %v, want hunt %v", c.OrderedSpeed, cfg.AI.HuntSpeedKts)
	}
}

func TestProsecuteTrackingResetsWhenLockLost(t *testing.T) {
	m := testMachine()
	c := escort()
	c.Mode = contact.Prosecute(20)
	// Quiet ownship: excess below the lock threshold but above abort.
	own := contact.Ownship{NoiseLevel: 60}
	c, _ = m.Evaluate(c, own, nil, 1)
	if c.Mode.Tag != contact.ModeProsecute {
		t.Fatalf("mode = %v, want PROSECUTE", c.Mode.Tag)
	}
	if c.Mode.TrackingSeconds != 0 {
		t.Errorf("tracking = %v, want reset to 0", c.Mode.TrackingSeconds)
	}
}

func TestAttackFiresAndEvades(t *testing.T) {
	cfg := config.Default()
	m := testMachine()
	c := escort()
	c.Mode = contact.Attack()
	c, fire := m.Evaluate(c, loudOwnship(), nil, 10)
	if fire == nil {
		t.Fatal("expected a fire request")
	}
	if fire.ShooterID != "s2" || fire.TargetID != contact.OwnshipID {
		t.Errorf("fire request = %+v", fire)
	}
	if math.Abs(fire.Bearing-90) > 0.1 {
		t.Errorf("fire bearing = %v, want ~90 back toward ownship", fire.Bearing)
	}
	if c.Mode.Tag != contact.ModeEvade {
		t.Errorf("mode = %v, want EVADE after firing", c.Mode.Tag)
	}
	if c.CooldownUntil != 10+cfg.AI.CooldownSec {
		t.Errorf("cooldown until %v, want %v", c.CooldownUntil, 10+cfg.AI.CooldownSec)
	}
	if c.OrderedSpeed != geo.Knots(cfg.AI.FlankSpeedKts) {
		t.Errorf("ordered speed = %v, want flank", c.OrderedSpeed)
	}
	if math.Abs(c.OrderedHeading-270) > 0.1 {
		t.Errorf("ordered heading = %v, want reciprocal 270", c.OrderedHeading)
	}
}

func TestEvadeReturnsToPatrolOnSignalLoss(t *testing.T) {
	m := testMachine()
	c := escort()
	c.Mode = contact.Evade(90)
	c, _ = m.Evaluate(c, contact.Ownship{NoiseLevel: 0.001}, nil, 1)
	if c.Mode.Tag != contact.ModePatrol {
		t.Errorf("mode = %v, want PATROL after signal loss", c.Mode.Tag)
	}
}

func TestReactionOverlayForcesEvadeAfterDelay(t *testing.T) {
	m := testMachine()
	c := escort()
	// Incoming player torpedo 1000 yd dead ahead of the contact
	// (contact heading 90, torpedo due east).
	torp := weapon.Torpedo{
		ID:         "t1",
		X:          -12000,
		Y:          0,
		Status:     weapon.StatusRunning,
		SearchMode: weapon.SearchPassive,
	}
	quiet := contact.Ownship{NoiseLevel: 0.001}

	c, _ = m.Evaluate(c, quiet, []weapon.Torpedo{torp}, 1)
	if c.Mode.Tag == contact.ModeEvade {
		t.Fatal("evaded before the passive reaction delay elapsed")
	}
	if c.ReactionDeadline != 3 {
		t.Fatalf("reaction deadline = %v, want 3", c.ReactionDeadline)
	}

	c, _ = m.Evaluate(c, quiet, []weapon.Torpedo{torp}, 2)
	if c.Mode.Tag == contact.ModeEvade {
		t.Fatal("evaded one second early")
	}

	c, _ = m.Evaluate(c, quiet, []weapon.Torpedo{torp}, 3)
	if c.Mode.Tag != contact.ModeEvade {
		t.Fatalf("mode = %v, want EVADE once the countdown elapsed", c.Mode.Tag)
	}
	// Running directly away from the weapon.
	if math.Abs(c.OrderedHeading-270) > 0.1 {
		t.Errorf("ordered heading = %v, want 270", c.OrderedHeading)
	}
}

func TestReactionOverlayActiveIsImmediate(t *testing.T) {
	m := testMachine()
	c := escort()
	torp := weapon.Torpedo{
		ID:               "t1",
		X:                -3000,
		Y:                0,
		Status:           weapon.StatusRunning,
		SearchMode:       weapon.SearchActive,
		EnableRange:      1500,
		DistanceTraveled: 2000,
	}
	c, _ = m.Evaluate(c, contact.Ownship{}, []weapon.Torpedo{torp}, 1)
	if c.Mode.Tag != contact.ModeEvade {
		t.Errorf("mode = %v, want immediate EVADE from an active weapon", c.Mode.Tag)
	}
}

func TestReactionTimerClearsWithoutThreat(t *testing.T) {
	m := testMachine()
	c := escort()
	c.ReactionDeadline = 7
	c, _ = m.Evaluate(c, contact.Ownship{NoiseLevel: 0.001}, nil, 1)
	if c.ReactionDeadline != 0 {
		t.Errorf("reaction deadline = %v, want cleared", c.ReactionDeadline)
	}
}

func TestMerchantsNeverRunTheMachine(t *testing.T) {
	m := testMachine()
	c := escort()
	c.Classification = contact.ClassMerchant
	got, fire := m.Evaluate(c, loudOwnship(), nil, 100)
	if fire != nil {
		t.Fatal("merchant fired a torpedo")
	}
	if got.Mode.Tag != contact.ModePatrol || got.LastEval != 0 {
		t.Errorf("merchant state changed: %+v", got.Mode)
	}
}

func TestEvaluationCadenceGating(t *testing.T) {
	m := testMachine()
	c := escort()
	c.LastEval = 1
	c, _ = m.Evaluate(c, loudOwnship(), nil, 1.5)
	if c.Mode.Tag != contact.ModePatrol {
		t.Errorf("machine ran again only half a second after last evaluation")
	}
	c, _ = m.Evaluate(c, loudOwnship(), nil, 2)
	if c.Mode.Tag != contact.ModeApproach {
		t.Errorf("machine failed to run after the full interval")
	}
}
