package acoustics

import (
	"math"
	"testing"

	"subsim/internal/config"
	"subsim/internal/geo"
)

func testContext() Context {
	cfg := config.Default()
	return NewContext(cfg.Equipment, cfg.Environment)
}

func TestTransmissionLossSphericalSpreading(t *testing.T) {
	ctx := testContext()
	tl := TransmissionLoss(1000, ctx)
	if math.Abs(tl-62.0) > 0.01 {
		t.Errorf("TL(1000 yd) = %v, want 62.0", tl)
	}
}

func TestTransmissionLossFloorsRange(t *testing.T) {
	ctx := testContext()
	if tl := TransmissionLoss(0, ctx); tl != TransmissionLoss(1, ctx) {
		t.Errorf("zero range not floored: %v", tl)
	}
	if tl := TransmissionLoss(-500, ctx); math.IsNaN(tl) || math.IsInf(tl, 0) {
		t.Errorf("negative range produced %v", tl)
	}
}

func TestTransmissionLossMonotonicOutsideCZ(t *testing.T) {
	ctx := testContext()
	prev := TransmissionLoss(1, ctx)
	for r := 100.0; r < ctx.CZRangeMinYds; r += 100 {
		tl := TransmissionLoss(geo.Yards(r), ctx)
		if tl < prev {
			t.Fatalf("TL decreased at %v yd: %v < %v", r, tl, prev)
		}
		prev = tl
	}
}

func TestConvergenceZoneBonus(t *testing.T) {
	ctx := testContext()
	inside := geo.Yards((ctx.CZRangeMinYds + ctx.CZRangeMaxYds) / 2)

	deep := TransmissionLoss(inside, ctx)
	shallow := ctx
	shallow.DeepWater = false
	if diff := TransmissionLoss(inside, shallow) - deep; math.Abs(diff-ctx.CZBonusDB) > 1e-9 {
		t.Errorf("CZ bonus = %v, want %v", diff, ctx.CZBonusDB)
	}

	// No bonus just outside the window.
	outside := geo.Yards(ctx.CZRangeMaxYds + 1)
	if diff := TransmissionLoss(outside, shallow) - TransmissionLoss(outside, ctx); diff != 0 {
		t.Errorf("bonus applied outside window: %v", diff)
	}
}

func TestNoiseLevelPowerAdditive(t *testing.T) {
	ctx := testContext()
	if NoiseLevel(5, ctx) >= NoiseLevel(15, ctx) {
		t.Errorf("noise level should grow with speed: %v >= %v",
			NoiseLevel(5, ctx), NoiseLevel(15, ctx))
	}
	// Combined NL always sits above the louder of its two components.
	nl := NoiseLevel(0, ctx)
	if nl < ctx.AmbientNoise() {
		t.Errorf("NL %v below ambient %v", nl, ctx.AmbientNoise())
	}
}

func TestCavitationOnsetJump(t *testing.T) {
	ctx := testContext()
	jump := NoiseLevel(18.1, ctx) - NoiseLevel(18.0, ctx)
	if jump <= 15 {
		t.Errorf("cavitation onset jump = %v dB, want > 15", jump)
	}
	// Penalty ramp is capped: the curve keeps rising with flow noise but
	// the cavitation term itself stops at its cap.
	if NoiseLevel(60, ctx) <= NoiseLevel(30, ctx) {
		t.Errorf("noise level not increasing past cavitation cap")
	}
}

func TestSignalExcessEquation(t *testing.T) {
	ctx := testContext()
	nl := 60.0
	se := SignalExcess(130, 1000, nl, ctx)
	want := 130 - TransmissionLoss(1000, ctx) - nl + ctx.DirectivityIndex
	if math.Abs(se-want) > 1e-9 {
		t.Errorf("SE = %v, want %v", se, want)
	}
}

func TestActiveTwoWayAppliesLossTwice(t *testing.T) {
	ctx := testContext()
	nl := 60.0
	one := ActiveOneWay(200, 2000, nl, ctx)
	two := ActiveTwoWay(200, 2000, nl, ctx)
	want := one - TransmissionLoss(2000, ctx) + ctx.OwnTargetStrength
	if math.Abs(two-want) > 1e-9 {
		t.Errorf("two-way = %v, want %v", two, want)
	}
}

func TestSeaStateClampedOnRead(t *testing.T) {
	ctx := testContext()
	ctx.SeaState = 11
	if ctx.AmbientNoise() != ctx.AmbientTable[6] {
		t.Errorf("sea state not clamped high")
	}
	ctx.SeaState = -2
	if ctx.AmbientNoise() != ctx.AmbientTable[0] {
		t.Errorf("sea state not clamped low")
	}
}

func TestToDBFloorsZeroPower(t *testing.T) {
	if db := ToDB(0); db != 0 {
		t.Errorf("ToDB(0) = %v, want 0", db)
	}
	if db := ToDB(-5); db != 0 {
		t.Errorf("ToDB(-5) = %v, want 0", db)
	}
}
