// Telemetry structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// SonarRow is one beam sample of the bearing-power buffer for a tick.
type SonarRow struct {
	ScenarioID string    `json:"scenario_id"` // TAG
	Bearing    float64   `json:"bearing"`     // TAG
	LevelDB    float64   `json:"level_db"`    // FIELD
	Timestamp  time.Time `json:"ts"`          // TIME INDEX
}

// TrackRow is the per-tick state of one AI contact as the core sees it.
type TrackRow struct {
	ScenarioID     string    `json:"scenario_id"`    // TAG
	ContactID      string    `json:"contact_id"`     // TAG
	Name           string    `json:"name"`           // FIELD
	Classification string    `json:"classification"` // FIELD
	Mode           string    `json:"mode"`           // FIELD
	Bearing        float64   `json:"bearing"`        // FIELD
	RangeYds       float64   `json:"range_yds"`      // FIELD
	SignalExcess   float64   `json:"signal_excess"`  // FIELD
	Pinging        bool      `json:"pinging"`        // FIELD
	Timestamp      time.Time `json:"ts"`             // TIME INDEX
}

// Event types for EventRow.
const (
	EventFire       = "fire"
	EventCollision  = "collision"
	EventModeChange = "mode_change"
	EventTorpedoDud = "torpedo_dud"
)

// EventRow records a discrete combat event: a launch, a mode transition,
// a proximity-fuse hit, a weapon going inert.
type EventRow struct {
	ScenarioID string    `json:"scenario_id"` // TAG
	EventType  string    `json:"event_type"`  // TAG
	SourceID   string    `json:"source_id"`   // FIELD
	TargetID   string    `json:"target_id"`   // FIELD
	Detail     string    `json:"detail"`      // FIELD
	Bearing    float64   `json:"bearing"`     // FIELD
	Timestamp  time.Time `json:"ts"`          // TIME INDEX
}

// SonarTableName holds the table name used when writing sonar rows to
// GreptimeDB. It defaults to "sonar_bearing" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var SonarTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "sonar_bearing"
}()

func (SonarRow) TableName() string {
	return SonarTableName
}
