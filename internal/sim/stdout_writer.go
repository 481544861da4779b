// Writer implementation printing telemetry to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"subsim/internal/telemetry"
)

// StdoutWriter prints rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// Write outputs a single sonar row.
func (w *StdoutWriter) Write(row telemetry.SonarRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteBatch outputs multiple sonar rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.SonarRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteTrack prints a contact track row to STDOUT.
func (w *StdoutWriter) WriteTrack(row telemetry.TrackRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteTracks prints multiple track rows.
func (w *StdoutWriter) WriteTracks(rows []telemetry.TrackRow) error {
	for _, r := range rows {
		_ = w.WriteTrack(r)
	}
	return nil
}

// WriteEvent prints a combat event to STDOUT.
func (w *StdoutWriter) WriteEvent(ev telemetry.EventRow) error {
	data, _ := json.Marshal(ev)
	fmt.Println(string(data))
	return nil
}

// WriteEvents prints multiple combat events.
func (w *StdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, ev := range rows {
		_ = w.WriteEvent(ev)
	}
	return nil
}
