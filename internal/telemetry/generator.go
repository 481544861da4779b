package telemetry

import (
	"time"

	"subsim/internal/acoustics"
	"subsim/internal/contact"
	"subsim/internal/geo"
)

// Generator samples core state into telemetry rows for the writers.
type Generator struct {
	ScenarioID string
}

// NewGenerator creates a generator for one scenario run.
func NewGenerator(scenarioID string) *Generator {
	return &Generator{ScenarioID: scenarioID}
}

// SonarRows samples the beam array once per bin.
func (g *Generator) SonarRows(beams *acoustics.BeamArray, ts time.Time) []SonarRow {
	rows := make([]SonarRow, 0, beams.NumBeams())
	for i := 0; i < beams.NumBeams(); i++ {
		bearing := float64(i) * beams.BeamSpacing()
		rows = append(rows, SonarRow{
			ScenarioID: g.ScenarioID,
			Bearing:    bearing,
			LevelDB:    beams.DB(bearing),
			Timestamp:  ts,
		})
	}
	return rows
}

// TrackRow builds the per-contact state row.
func (g *Generator) TrackRow(c contact.Contact, own contact.Ownship, signalExcess float64, ts time.Time) TrackRow {
	return TrackRow{
		ScenarioID:     g.ScenarioID,
		ContactID:      c.ID,
		Name:           c.Name,
		Classification: string(c.Classification),
		Mode:           string(c.Mode.Tag),
		Bearing:        geo.BearingBetween(own.X, own.Y, c.X, c.Y),
		RangeYds:       float64(geo.RangeYards(own.X, own.Y, c.X, c.Y)),
		SignalExcess:   signalExcess,
		Pinging:        c.Pinging,
		Timestamp:      ts,
	}
}

// Event builds an event row.
func (g *Generator) Event(eventType, sourceID, targetID, detail string, bearing float64, ts time.Time) EventRow {
	return EventRow{
		ScenarioID: g.ScenarioID,
		EventType:  eventType,
		SourceID:   sourceID,
		TargetID:   targetID,
		Detail:     detail,
		Bearing:    bearing,
		Timestamp:  ts,
	}
}
