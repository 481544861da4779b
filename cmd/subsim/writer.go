package main

import (
	"os"

	"golang.org/x/term"

	"subsim/internal/sim"
)

// newWriters sets up sonar, track and event writers based on flags and env
// vars. It returns the writers and a cleanup function to close any
// resources.
func newWriters(printOnly, tui bool, logFile, scenarioID string) (sim.SonarWriter, sim.TrackWriter, sim.EventWriter, func(), error) {
	cleanup := func() {}

	if tui && term.IsTerminal(int(os.Stdout.Fd())) {
		tw := sim.NewTUIWriter(scenarioID)
		cleanup = func() { tw.Close() }
		if logFile == "" {
			return tw, tw, tw, cleanup, nil
		}
		fw, err := sim.NewFileWriter(logFile, logFile+".tracks", logFile+".events")
		if err != nil {
			cleanup()
			return nil, nil, nil, nil, err
		}
		mw := sim.NewMultiWriter(
			[]sim.SonarWriter{tw, fw},
			[]sim.TrackWriter{tw, fw},
			[]sim.EventWriter{tw, fw},
		)
		closeAll := func() { fw.Close(); tw.Close() }
		return mw, mw, mw, closeAll, nil
	}

	base, err := baseWriter(printOnly)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if logFile == "" {
		return base, base.(sim.TrackWriter), base.(sim.EventWriter), cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".tracks", logFile+".events")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.SonarWriter{base, fw},
		[]sim.TrackWriter{base.(sim.TrackWriter), fw},
		[]sim.EventWriter{base.(sim.EventWriter), fw},
	)
	cleanup = func() { fw.Close() }
	return mw, mw, mw, cleanup, nil
}

// baseWriter chooses the underlying writer based on printOnly flag and env
// vars.
func baseWriter(printOnly bool) (sim.SonarWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		return &sim.StdoutWriter{}, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	sonarTable := os.Getenv("GREPTIMEDB_TABLE")
	trackTable := os.Getenv("CONTACT_TRACK_TABLE")
	eventTable := os.Getenv("COMBAT_EVENT_TABLE")
	return sim.NewGreptimeDBWriter(endpoint, database, sonarTable, trackTable, eventTable)
}

// newSonarWriter creates a sonar-only writer for replay.
func newSonarWriter(printOnly bool) (sim.SonarWriter, func(), error) {
	w, _, _, cleanup, err := newWriters(printOnly, false, "", "")
	return w, cleanup, err
}
