package sim

import (
	"context"
	"time"

	"subsim/internal/acoustics"
	"subsim/internal/ai"
	"subsim/internal/contact"
	"subsim/internal/geo"
	"subsim/internal/logging"
	"subsim/internal/telemetry"
	"subsim/internal/weapon"
)

const (
	// transientBoostDB is the momentary level added when a DIRTY contact
	// drops a wrench or cycles a pump.
	transientBoostDB = 15

	// pingSourceLevelDB is the radiated level of an active sonar ping.
	pingSourceLevelDB = 200

	// torpedoSourceLevelDB is the broadband level of a running torpedo.
	torpedoSourceLevelDB = 145

	// bearingJitterDeg is the sigma of the Gaussian smear applied to
	// every beam integration.
	bearingJitterDeg = 1.0
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "scenario", s.scenarioID, "tick_interval", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// tick advances the world one interval and writes telemetry.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	res := s.Step(s.tickInterval.Seconds())
	ts := s.now().UTC()
	sonar := s.teleGen.SonarRows(s.beams, ts)
	var tracks []telemetry.TrackRow
	ownNL := acoustics.NoiseLevel(s.ownship.Speed, s.acoustic)
	for _, c := range s.contacts {
		if !c.Alive {
			continue
		}
		rng := geo.RangeYards(s.ownship.X, s.ownship.Y, c.X, c.Y)
		se := acoustics.SignalExcess(c.EffectiveSourceLevel(), rng, ownNL, s.acoustic)
		tracks = append(tracks, s.teleGen.TrackRow(c, s.ownship, se, ts))
	}
	s.mu.Unlock()

	// Batch support if writer implements WriteBatch
	if bw, ok := s.sonarWriter.(batchWriter); ok {
		if err := bw.WriteBatch(sonar); err != nil {
			log.Error("sonar batch write failed", "err", err)
		}
	} else {
		for _, row := range sonar {
			if err := s.sonarWriter.Write(row); err != nil {
				log.Error("sonar write failed", "bearing", row.Bearing, "err", err)
			}
		}
	}

	if s.trackWriter != nil {
		if bw, ok := s.trackWriter.(batchTrackWriter); ok {
			if err := bw.WriteTracks(tracks); err != nil {
				log.Error("track batch write failed", "err", err)
			}
		} else {
			for _, row := range tracks {
				if err := s.trackWriter.WriteTrack(row); err != nil {
					log.Error("track write failed", "contact_id", row.ContactID, "err", err)
				}
			}
		}
	}

	if len(res.Events) > 0 && s.eventWriter != nil {
		if bw, ok := s.eventWriter.(batchEventWriter); ok {
			if err := bw.WriteEvents(res.Events); err != nil {
				log.Error("event batch write failed", "err", err)
			}
		} else {
			for _, ev := range res.Events {
				if err := s.eventWriter.WriteEvent(ev); err != nil {
					log.Error("event write failed", "event_type", ev.EventType, "err", err)
				}
			}
		}
	}
}

// Step advances the world by dt seconds. The caller holds the lock when
// running concurrently with the snapshot accessors.
//
// Order inside a tick matters: the beam buffer is cleared and every
// contact integrated before any dB lookup, and the AI evaluates against
// the torpedo list as it stood at the start of the tick, so evaluation
// order cannot change detection results.
func (s *Simulator) Step(dt float64) TickResult {
	s.simTime += dt
	ts := s.now().UTC()
	var events []telemetry.EventRow

	s.moveOwnship(dt)
	for i := range s.contacts {
		s.contacts[i] = moveContact(s.contacts[i], s.cfg.AI.TurnRateDegPerSec, dt)
	}

	s.integrateBeams(dt)

	prevTorps := make([]weapon.Torpedo, len(s.torpedoes))
	copy(prevTorps, s.torpedoes)

	var fires []ai.FireRequest
	for i, c := range s.contacts {
		updated, fr := s.machine.Evaluate(c, s.ownship, prevTorps, s.simTime)
		if updated.Mode.Tag != c.Mode.Tag {
			events = append(events, s.teleGen.Event(telemetry.EventModeChange, c.ID, "", string(updated.Mode.Tag), 0, ts))
		}
		s.contacts[i] = updated
		if fr != nil {
			fires = append(fires, *fr)
		}
	}

	var collisions []weapon.Collision
	wv := weapon.WorldView{Ownship: s.ownship, Contacts: s.contacts}
	alive := s.torpedoes[:0]
	for _, t := range s.torpedoes {
		updated, col := s.guidance.Update(t, wv, dt)
		if col != nil {
			collisions = append(collisions, *col)
			events = append(events, s.teleGen.Event(telemetry.EventCollision, col.TorpedoID, col.TargetID, "", 0, ts))
		}
		if updated.Status == weapon.StatusDud && t.Status == weapon.StatusRunning {
			events = append(events, s.teleGen.Event(telemetry.EventTorpedoDud, updated.ID, updated.DesignatedTargetID, "", 0, ts))
		}
		if updated.Status != weapon.StatusExploded {
			alive = append(alive, updated)
		}
	}
	s.torpedoes = alive

	for _, col := range collisions {
		s.applyCollision(col)
	}

	for _, fr := range fires {
		hostile := fr.TargetID == contact.OwnshipID
		t := weapon.Launch(fr.X, fr.Y, fr.Bearing, fr.TargetID, hostile, weapon.SearchActive, s.cfg.Torpedo)
		s.torpedoes = append(s.torpedoes, t)
		events = append(events, s.teleGen.Event(telemetry.EventFire, fr.ShooterID, fr.TargetID, t.ID, fr.Bearing, ts))
	}

	res := TickResult{
		Contacts:     make([]contact.Contact, len(s.contacts)),
		Torpedoes:    make([]weapon.Torpedo, len(s.torpedoes)),
		FireRequests: fires,
		Collisions:   collisions,
		Events:       events,
	}
	copy(res.Contacts, s.contacts)
	copy(res.Torpedoes, s.torpedoes)
	return res
}

func (s *Simulator) moveOwnship(dt float64) {
	dist := geo.Feet(s.ownship.Speed.FeetPerSecond() * dt)
	s.ownship.X, s.ownship.Y = geo.Offset(s.ownship.X, s.ownship.Y, s.ownship.Heading, dist)
	if !s.fixedNoise {
		s.ownship.NoiseLevel = s.radiatedNoise(s.ownship.Speed)
	}
}

// moveContact applies the state machine's orders: heading turns at the
// contact's rudder rate, speed changes take effect immediately.
func moveContact(c contact.Contact, turnRate, dt float64) contact.Contact {
	if !c.Alive {
		return c
	}
	c.Heading = geo.TurnToward(c.Heading, c.OrderedHeading, turnRate*dt)
	c.Speed = c.OrderedSpeed
	dist := geo.Feet(c.Speed.FeetPerSecond() * dt)
	c.X, c.Y = geo.Offset(c.X, c.Y, c.Heading, dist)
	return c
}

// integrateBeams rebuilds the bearing-power buffer for this tick.
func (s *Simulator) integrateBeams(dt float64) {
	s.beams.Clear(s.acoustic.AmbientNoise())
	for _, c := range s.contacts {
		if !c.Alive {
			continue
		}
		rng := geo.RangeYards(s.ownship.X, s.ownship.Y, c.X, c.Y)
		tl := acoustics.TransmissionLoss(rng, s.acoustic)
		bearing := geo.BearingBetween(s.ownship.X, s.ownship.Y, c.X, c.Y)
		bearing += s.rand.NormFloat64() * bearingJitterDeg

		level := c.EffectiveSourceLevel() - tl
		if c.Profile == contact.ProfileDirty && s.rand.Float64() < c.TransientRate*dt {
			level += transientBoostDB
		}
		s.beams.AddSignal(bearing, level, s.acoustic.BeamWidthDeg)

		if c.Pinging {
			s.beams.AddSignal(bearing, pingSourceLevelDB-tl, s.acoustic.BeamWidthDeg/2)
		}
	}
	for _, t := range s.torpedoes {
		if t.Status != weapon.StatusRunning {
			continue
		}
		rng := geo.RangeYards(s.ownship.X, s.ownship.Y, t.X, t.Y)
		tl := acoustics.TransmissionLoss(rng, s.acoustic)
		bearing := geo.BearingBetween(s.ownship.X, s.ownship.Y, t.X, t.Y)
		bearing += s.rand.NormFloat64() * bearingJitterDeg
		s.beams.AddSignal(bearing, torpedoSourceLevelDB-tl, s.acoustic.BeamWidthDeg)
	}
}

func (s *Simulator) applyCollision(col weapon.Collision) {
	if col.TargetID == contact.OwnshipID {
		s.ownshipSunk = true
		return
	}
	for i := range s.contacts {
		if s.contacts[i].ID == col.TargetID {
			s.contacts[i].Alive = false
			return
		}
	}
}

// OwnshipSunk reports whether a hostile torpedo has hit the player.
func (s *Simulator) OwnshipSunk() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownshipSunk
}
