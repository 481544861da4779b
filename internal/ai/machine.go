package ai

import (
	"subsim/internal/config"
	"subsim/internal/contact"
	"subsim/internal/geo"
	"subsim/internal/weapon"
)

// FireRequest asks the host to materialize a torpedo for a contact.
type FireRequest struct {
	ShooterID string
	X, Y      geo.Feet
	Bearing   float64
	TargetID  string
}

// Machine is the per-contact tactical state machine. It is stateless
// itself; all per-contact state lives on the Contact snapshot.
type Machine struct {
	cfg config.AIConfig
	det Detector
}

// NewMachine builds a state machine from tuning and a detector.
func NewMachine(cfg config.AIConfig, det Detector) *Machine {
	return &Machine{cfg: cfg, det: det}
}

// Evaluate advances one contact's tactical state. now is simulation time in
// seconds. The torpedo list must be the previous tick's, so evaluation
// order within a tick cannot change detection results. Returns the updated
// snapshot and a fire request when the contact shoots.
func (m *Machine) Evaluate(c contact.Contact, own contact.Ownship, torps []weapon.Torpedo, now float64) (contact.Contact, *FireRequest) {
	if !c.Alive || c.Oblivious() {
		return c, nil
	}

	// Torpedo reaction overlay: runs every tick, independent of the
	// evaluation cadence below.
	threat := m.det.TorpedoThreat(c, torps)
	if threat.Level != ThreatNone {
		deadline := now + m.det.ReactionDelay(threat.Level)
		if c.ReactionDeadline == 0 || deadline < c.ReactionDeadline {
			c.ReactionDeadline = deadline
		}
		if now >= c.ReactionDeadline && c.Mode.Tag != contact.ModeEvade {
			c.Mode = contact.Evade(threat.Bearing)
			c.Pinging = false
			c.OrderedHeading = geo.Reciprocal(threat.Bearing)
			c.OrderedSpeed = geo.Knots(m.cfg.FlankSpeedKts)
		}
	} else if c.Mode.Tag != contact.ModeEvade {
		c.ReactionDeadline = 0
	}

	// Tactical evaluation runs on its own cadence.
	if now-c.LastEval < m.cfg.EvalIntervalSec {
		return c, nil
	}
	elapsed := now - c.LastEval
	c.LastEval = now

	se := m.det.OwnshipSignalExcess(c, own)
	bearing := geo.BearingBetween(c.X, c.Y, own.X, own.Y)
	rng := geo.RangeYards(c.X, c.Y, own.X, own.Y)

	switch c.Mode.Tag {
	case contact.ModePatrol:
		if se > 0 {
			c.Mode = contact.Approach()
		}

	case contact.ModeApproach:
		c.OrderedHeading = m.interceptHeading(c, own)
		c.OrderedSpeed = geo.Knots(m.cfg.SilentSpeedKts)
		switch {
		case rng < geo.Yards(m.cfg.CloseRangeYds) && now >= c.CooldownUntil:
			c.Mode = contact.Attack()
		case se > m.cfg.ProsecuteThreshold:
			c.Mode = contact.Prosecute(0)
			c.Pinging = true
		case se < m.cfg.LostContactThreshold:
			c.Mode = contact.Patrol()
		}

	case contact.ModeProsecute:
		c.OrderedHeading = bearing
		c.OrderedSpeed = geo.Knots(m.cfg.HuntSpeedKts)
		tracking := c.Mode.TrackingSeconds
		if se > m.cfg.LockThreshold {
			tracking += elapsed
		} else {
			tracking = 0
		}
		switch {
		case tracking >= m.cfg.TrackTimeSec && now >= c.CooldownUntil:
			c.Mode = contact.Attack()
		case se < m.cfg.ProsecuteAbortThreshold:
			c.Mode = contact.Patrol()
			c.Pinging = false
		default:
			c.Mode = contact.Prosecute(tracking)
		}

	case contact.ModeAttack:
		if now >= c.CooldownUntil {
			c.CooldownUntil = now + m.cfg.CooldownSec
			c.Mode = contact.Evade(bearing)
			c.Pinging = false
			c.OrderedHeading = geo.Reciprocal(bearing)
			c.OrderedSpeed = geo.Knots(m.cfg.FlankSpeedKts)
			return c, &FireRequest{
				ShooterID: c.ID,
				X:         c.X,
				Y:         c.Y,
				Bearing:   bearing,
				TargetID:  contact.OwnshipID,
			}
		}

	case contact.ModeEvade:
		c.OrderedHeading = geo.Reciprocal(c.Mode.ThreatBearing)
		c.OrderedSpeed = geo.Knots(m.cfg.FlankSpeedKts)
		if se < m.cfg.LostContactThreshold && m.det.TorpedoThreat(c, torps).Level == ThreatNone {
			c.Mode = contact.Patrol()
			c.ReactionDeadline = 0
		}
	}

	return c, nil
}

// interceptHeading leads the target: predict ownship forward by the
// intercept time at its current course and speed and steer for that point.
func (m *Machine) interceptHeading(c contact.Contact, own contact.Ownship) float64 {
	lead := geo.Feet(own.Speed.FeetPerSecond() * m.cfg.InterceptTimeSec)
	px, py := geo.Offset(own.X, own.Y, own.Heading, lead)
	return geo.BearingBetween(c.X, c.Y, px, py)
}
