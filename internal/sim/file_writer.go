package sim

import (
	"encoding/json"
	"os"

	"subsim/internal/telemetry"
)

// FileWriter writes sonar, track and event data to JSONL files.
type FileWriter struct {
	sonarFile *os.File
	trackFile *os.File
	eventFile *os.File
	sonarEnc  *json.Encoder
	trackEnc  *json.Encoder
	eventEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. trackPath or eventPath may be empty
// to skip those logs.
func NewFileWriter(sonarPath, trackPath, eventPath string) (*FileWriter, error) {
	sf, err := os.Create(sonarPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{sonarFile: sf, sonarEnc: json.NewEncoder(sf)}
	if trackPath != "" {
		tf, err := os.Create(trackPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.trackFile = tf
		fw.trackEnc = json.NewEncoder(tf)
	}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			if fw.trackFile != nil {
				fw.trackFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// Write logs a single sonar row.
func (f *FileWriter) Write(row telemetry.SonarRow) error {
	return f.sonarEnc.Encode(row)
}

// WriteBatch logs multiple sonar rows.
func (f *FileWriter) WriteBatch(rows []telemetry.SonarRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrack logs a single track row, if enabled.
func (f *FileWriter) WriteTrack(row telemetry.TrackRow) error {
	if f.trackEnc == nil {
		return nil
	}
	return f.trackEnc.Encode(row)
}

// WriteTracks logs multiple track rows.
func (f *FileWriter) WriteTracks(rows []telemetry.TrackRow) error {
	for _, r := range rows {
		if err := f.WriteTrack(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a single event row, if enabled.
func (f *FileWriter) WriteEvent(ev telemetry.EventRow) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(ev)
}

// WriteEvents logs multiple event rows.
func (f *FileWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, ev := range rows {
		if err := f.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.sonarFile != nil {
		if e := f.sonarFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.trackFile != nil {
		if e := f.trackFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.eventFile != nil {
		if e := f.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
