// Simulator orchestrating the acoustic picture, AI contacts and weapons
package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"subsim/internal/acoustics"
	"subsim/internal/ai"
	"subsim/internal/config"
	"subsim/internal/contact"
	"subsim/internal/geo"
	"subsim/internal/scenario"
	"subsim/internal/telemetry"
	"subsim/internal/weapon"

	"github.com/google/uuid"
)

// SonarWriter is an interface to support different output writers.
type SonarWriter interface {
	Write(telemetry.SonarRow) error
}

// TrackWriter handles per-contact track rows.
type TrackWriter interface {
	WriteTrack(telemetry.TrackRow) error
}

// EventWriter handles discrete combat events.
type EventWriter interface {
	WriteEvent(telemetry.EventRow) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.SonarRow) error
}

type batchTrackWriter interface {
	WriteTracks([]telemetry.TrackRow) error
}

type batchEventWriter interface {
	WriteEvents([]telemetry.EventRow) error
}

// TickResult is what one Step hands back to the host: the updated world
// plus everything discrete that happened during the tick.
type TickResult struct {
	Contacts     []contact.Contact
	Torpedoes    []weapon.Torpedo
	FireRequests []ai.FireRequest
	Collisions   []weapon.Collision
	Events       []telemetry.EventRow
}

// Simulator owns the world state and advances it tick by tick.
type Simulator struct {
	scenarioID string
	cfg        *config.SimulationConfig
	acoustic   acoustics.Context
	beams      *acoustics.BeamArray
	det        ai.Detector
	machine    *ai.Machine
	guidance   weapon.Guidance
	teleGen    *telemetry.Generator

	ownship     contact.Ownship
	fixedNoise  bool
	contacts    []contact.Contact
	torpedoes   []weapon.Torpedo
	ownshipSunk bool

	sonarWriter SonarWriter
	trackWriter TrackWriter
	eventWriter EventWriter

	tickInterval time.Duration
	simTime      float64
	rand         *rand.Rand
	now          func() time.Time
	mu           sync.Mutex
}

// NewSimulator builds a world from config and a scenario definition.
// Scenario environment overrides (sea state, water depth) are applied
// before the acoustic context is frozen.
func NewSimulator(scn *scenario.Scenario, cfg *config.SimulationConfig, sw SonarWriter, tw TrackWriter, ew EventWriter, tickInterval time.Duration) *Simulator {
	env := cfg.Environment
	if scn.SeaState != nil {
		env.SeaState = *scn.SeaState
	}
	if scn.DeepWater != nil {
		env.DeepWater = *scn.DeepWater
	}

	actx := acoustics.NewContext(cfg.Equipment, env)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	det := ai.NewDetector(cfg.Detector)

	s := &Simulator{
		scenarioID:   scn.Name,
		cfg:          cfg,
		acoustic:     actx,
		beams:        acoustics.NewBeamArray(actx, rng),
		det:          det,
		machine:      ai.NewMachine(cfg.AI, det),
		guidance:     weapon.NewGuidance(cfg.Torpedo),
		teleGen:      telemetry.NewGenerator(scn.Name),
		sonarWriter:  sw,
		trackWriter:  tw,
		eventWriter:  ew,
		tickInterval: tickInterval,
		rand:         rng,
		now:          time.Now,
	}

	s.ownship = contact.Ownship{
		X:       geo.Feet(scn.Ownship.X),
		Y:       geo.Feet(scn.Ownship.Y),
		Heading: scn.Ownship.Heading,
		Speed:   geo.Knots(scn.Ownship.SpeedKts),
	}
	if scn.Ownship.NoiseLevel > 0 {
		s.ownship.NoiseLevel = scn.Ownship.NoiseLevel
		s.fixedNoise = true
	} else {
		s.ownship.NoiseLevel = s.radiatedNoise(s.ownship.Speed)
	}

	for _, c := range scn.Contacts {
		s.contacts = append(s.contacts, contact.Contact{
			ID:              generateContactID(c.Name),
			Name:            c.Name,
			X:               geo.Feet(c.X),
			Y:               geo.Feet(c.Y),
			Heading:         c.Heading,
			Speed:           geo.Knots(c.SpeedKts),
			OrderedHeading:  c.Heading,
			OrderedSpeed:    geo.Knots(c.SpeedKts),
			Classification:  contact.Classification(c.Classification),
			Profile:         contact.Profile(c.Profile),
			TransientRate:   c.TransientRate,
			SourceLevel:     c.SourceLevel,
			CavitationOnset: geo.Knots(c.CavitationOnset),
			Sensitivity:     c.Sensitivity,
			Mode:            contact.Patrol(),
			Alive:           true,
		})
	}
	return s
}

// radiatedNoise is the inverse-square-scale noise the AI hears from the
// player, derived from ownship speed unless the scenario pins a value.
func (s *Simulator) radiatedNoise(speed geo.Knots) float64 {
	n := s.cfg.OwnshipNoise.Base + s.cfg.OwnshipNoise.SpeedFactor*float64(speed)*float64(speed)
	if n > s.cfg.OwnshipNoise.Max {
		n = s.cfg.OwnshipNoise.Max
	}
	return n
}

// SetOwnshipOrders points the player vessel. Heading and speed apply
// immediately; the host owns any more detailed maneuvering model.
func (s *Simulator) SetOwnshipOrders(heading float64, speedKts float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownship.Heading = heading
	s.ownship.Speed = geo.Knots(speedKts)
	if !s.fixedNoise {
		s.ownship.NoiseLevel = s.radiatedNoise(s.ownship.Speed)
	}
}

// LaunchTorpedo fires a player weapon from the ownship position on the
// given gyro heading at the designated contact id. Contacts hear a
// passive-search weapon at much shorter range than an active one.
func (s *Simulator) LaunchTorpedo(gyro float64, targetID string, mode weapon.SearchMode) weapon.Torpedo {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := weapon.Launch(s.ownship.X, s.ownship.Y, gyro, targetID, false, mode, s.cfg.Torpedo)
	s.torpedoes = append(s.torpedoes, t)
	if s.eventWriter != nil {
		ev := s.teleGen.Event(telemetry.EventFire, contact.OwnshipID, targetID, t.ID, gyro, s.now().UTC())
		_ = s.eventWriter.WriteEvent(ev)
	}
	return t
}

// OwnshipSnapshot returns the current player vessel state.
func (s *Simulator) OwnshipSnapshot() contact.Ownship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownship
}

// ContactSnapshot returns a copy of the current contact list.
func (s *Simulator) ContactSnapshot() []contact.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contact.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// TorpedoSnapshot returns a copy of the weapons currently in the water.
func (s *Simulator) TorpedoSnapshot() []weapon.Torpedo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]weapon.Torpedo, len(s.torpedoes))
	copy(out, s.torpedoes)
	return out
}

// Health summarizes the tactical picture per classification.
type Health struct {
	Classification string `json:"classification"`
	Total          int    `json:"total"`
	Destroyed      int    `json:"destroyed"`
	Engaged        int    `json:"engaged"`
}

// HealthSnapshot aggregates contact status for hosts and dashboards.
func (s *Simulator) HealthSnapshot() []Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := map[string]int{}
	var result []Health
	for _, c := range s.contacts {
		i, ok := idx[string(c.Classification)]
		if !ok {
			i = len(result)
			idx[string(c.Classification)] = i
			result = append(result, Health{Classification: string(c.Classification)})
		}
		result[i].Total++
		if !c.Alive {
			result[i].Destroyed++
			continue
		}
		switch c.Mode.Tag {
		case contact.ModeProsecute, contact.ModeAttack, contact.ModeEvade:
			result[i].Engaged++
		}
	}
	return result
}

func generateContactID(name string) string {
	return fmt.Sprintf("%s-%s", name, uuid.New().String())
}
