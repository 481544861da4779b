// Package ai implements the opposing-force senses and tactical state
// machine: what a contact can hear, and what it does about it.
package ai

import (
	"math"

	"subsim/internal/config"
	"subsim/internal/contact"
	"subsim/internal/geo"
	"subsim/internal/weapon"
)

// ThreatLevel ranks how a contact perceives an incoming torpedo.
type ThreatLevel int

const (
	ThreatNone ThreatLevel = iota
	ThreatPassiveBaffled
	ThreatPassive
	ThreatActive
)

// Threat is the detector's torpedo verdict: the strongest threat level
// among running weapons and the bearing to that weapon.
type Threat struct {
	Level   ThreatLevel
	Bearing float64
}

// Detector decides whether an AI contact currently hears the player or an
// incoming weapon.
type Detector struct {
	cfg config.DetectorConfig
}

// NewDetector builds a detector from tuning.
func NewDetector(cfg config.DetectorConfig) Detector {
	return Detector{cfg: cfg}
}

// OwnshipSignalExcess is the inverse-square proxy the AI thresholds on:
// ownship noise over distance squared, scaled by the contact's sensitivity,
// minus the detection threshold. This is deliberately not the dB sonar
// equation the display uses; the two models are tuned independently.
func (d Detector) OwnshipSignalExcess(c contact.Contact, own contact.Ownship) float64 {
	rng := float64(geo.RangeYards(c.X, c.Y, own.X, own.Y))
	if rng < 1 {
		rng = 1
	}
	strength := own.NoiseLevel / (rng * rng) * c.Sensitivity
	return strength - d.cfg.DetectionThreshold
}

// TorpedoThreat scans running non-friendly torpedoes for the strongest
// threat to a contact. Weapons past their enable range and pinging count
// as active; others are passive detections whose range shrinks sharply in
// the contact's baffles.
func (d Detector) TorpedoThreat(c contact.Contact, torps []weapon.Torpedo) Threat {
	best := Threat{Level: ThreatNone}
	for _, t := range torps {
		if t.Status != weapon.StatusRunning || t.Hostile {
			continue
		}
		rng := float64(geo.RangeYards(c.X, c.Y, t.X, t.Y))
		bearing := geo.BearingBetween(c.X, c.Y, t.X, t.Y)
		rel := geo.RelativeBearing(c.Heading, bearing)
		baffled := rel > d.cfg.BaffleMinDeg && rel < d.cfg.BaffleMaxDeg

		level := ThreatNone
		active := t.SearchMode == weapon.SearchActive && t.DistanceTraveled >= t.EnableRange
		switch {
		case active && rng <= d.cfg.ActiveDetectionRangeYds:
			level = ThreatActive
		case baffled && rng <= d.cfg.PassiveDetectionRangeYds*d.cfg.BaffledRangeFactor:
			level = ThreatPassiveBaffled
		case !baffled && rng <= d.cfg.PassiveDetectionRangeYds:
			level = ThreatPassive
		}
		if level > best.Level {
			best = Threat{Level: level, Bearing: bearing}
		}
	}
	return best
}

// ReactionDelay returns how long a contact dithers before reacting to a
// threat of the given level. Active contacts react at once; a weapon heard
// faintly through the baffles takes far longer to believe.
func (d Detector) ReactionDelay(level ThreatLevel) float64 {
	switch level {
	case ThreatActive:
		return d.cfg.ReactionActiveSec
	case ThreatPassive:
		return d.cfg.ReactionPassiveSec
	case ThreatPassiveBaffled:
		return d.cfg.ReactionBaffledSec
	}
	return math.Inf(1)
}
