package sim

import (
	"subsim/internal/telemetry"
)

// MultiWriter fan-outs sonar, track and event rows to multiple writers.
type MultiWriter struct {
	sonarWriters []SonarWriter
	trackWriters []TrackWriter
	eventWriters []EventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []SonarWriter, tws []TrackWriter, ews []EventWriter) *MultiWriter {
	return &MultiWriter{sonarWriters: sws, trackWriters: tws, eventWriters: ews}
}

// Write sends a sonar row to all writers.
func (mw *MultiWriter) Write(row telemetry.SonarRow) error {
	for _, w := range mw.sonarWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple sonar rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.SonarRow) error {
	for _, w := range mw.sonarWriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTrack sends a track row to all track writers.
func (mw *MultiWriter) WriteTrack(row telemetry.TrackRow) error {
	for _, w := range mw.trackWriters {
		if err := w.WriteTrack(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTracks sends multiple track rows to all track writers, using batch if supported.
func (mw *MultiWriter) WriteTracks(rows []telemetry.TrackRow) error {
	for _, w := range mw.trackWriters {
		if bw, ok := w.(batchTrackWriter); ok {
			if err := bw.WriteTracks(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteTrack(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEvent sends an event row to all event writers.
func (mw *MultiWriter) WriteEvent(ev telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all event writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if bw, ok := w.(batchEventWriter); ok {
			if err := bw.WriteEvents(rows); err != nil {
				return err
			}
			continue
		}
		for _, ev := range rows {
			if err := w.WriteEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
