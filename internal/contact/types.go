// Package contact holds the entity model for AI contacts and ownship.
package contact

import "subsim/internal/geo"

// Classification of a sonar contact.
type Classification string

const (
	ClassMerchant Classification = "MERCHANT"
	ClassTrawler  Classification = "TRAWLER"
	ClassEscort   Classification = "ESCORT"
	ClassSub      Classification = "SUB"
	ClassBiologic Classification = "BIOLOGIC"
)

// Profile describes how clean a contact's acoustic signature is. DIRTY
// contacts throw transients at their transient rate.
type Profile string

const (
	ProfileClean Profile = "CLEAN"
	ProfileDirty Profile = "DIRTY"
)

// ModeTag names an AI state.
type ModeTag string

const (
	ModePatrol    ModeTag = "PATROL"
	ModeApproach  ModeTag = "APPROACH"
	ModeProsecute ModeTag = "PROSECUTE"
	ModeAttack    ModeTag = "ATTACK"
	ModeEvade     ModeTag = "EVADE"
)

// Mode is a tagged variant: the tag plus the payload that only makes sense
// in that state. Use the constructors; a zero Mode is PATROL.
type Mode struct {
	Tag ModeTag

	// TrackingSeconds accumulates firing-solution time. PROSECUTE only.
	TrackingSeconds float64

	// ThreatBearing is the bearing being run from. EVADE only.
	ThreatBearing float64
}

// Patrol returns the quiescent search mode.
func Patrol() Mode { return Mode{Tag: ModePatrol} }

// Approach returns the closing mode.
func Approach() Mode { return Mode{Tag: ModeApproach} }

// Prosecute returns the tracking mode carrying accumulated solution time.
func Prosecute(trackingSeconds float64) Mode {
	return Mode{Tag: ModeProsecute, TrackingSeconds: trackingSeconds}
}

// Attack returns the weapon-release mode.
func Attack() Mode { return Mode{Tag: ModeAttack} }

// Evade returns the flight mode, recording the bearing of the threat being
// run from.
func Evade(threatBearing float64) Mode {
	return Mode{Tag: ModeEvade, ThreatBearing: geo.NormalizeBearing(threatBearing)}
}

// Contact is one AI vessel. State-machine and physics functions take a
// Contact by value and return an updated snapshot; nothing mutates a
// Contact in place.
type Contact struct {
	ID   string
	Name string

	X, Y    geo.Feet
	Heading float64
	Speed   geo.Knots

	// Orders issued by the state machine, applied by the host's kinematics.
	OrderedHeading float64
	OrderedSpeed   geo.Knots

	Classification  Classification
	Profile         Profile
	TransientRate   float64
	SourceLevel     float64
	CavitationOnset geo.Knots
	Sensitivity     float64

	Mode             Mode
	LastEval         float64
	CooldownUntil    float64
	ReactionDeadline float64
	Pinging          bool
	Alive            bool
}

// Oblivious reports whether a contact never runs the tactical state
// machine. Civilian traffic and biologics hold course no matter what.
func (c Contact) Oblivious() bool {
	switch c.Classification {
	case ClassMerchant, ClassTrawler, ClassBiologic:
		return true
	}
	return false
}

// EffectiveSourceLevel is the radiated level including the cavitation
// boost above the contact's own onset speed.
func (c Contact) EffectiveSourceLevel() float64 {
	sl := c.SourceLevel
	if c.CavitationOnset > 0 && c.Speed > c.CavitationOnset {
		d := float64(c.Speed - c.CavitationOnset)
		boost := d * d * 0.3
		if boost > 40 {
			boost = 40
		}
		sl += boost
	}
	return sl
}

// OwnshipID is the synthetic target id torpedoes use to designate the
// player vessel.
const OwnshipID = "OWNSHIP"

// Ownship is the per-tick kinematic snapshot of the player vessel handed
// to the core by the host.
type Ownship struct {
	X, Y    geo.Feet
	Heading float64
	Speed   geo.Knots

	// NoiseLevel is the host-supplied radiated-noise scalar consumed by
	// the AI's inverse-square detector. Not dB.
	NoiseLevel float64
}
