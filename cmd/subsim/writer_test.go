package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"subsim/internal/sim"
	"subsim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	sw, tw, ew, cleanup, err := newWriters(true, false, "", "s1")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := sw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", sw)
	}
	if _, ok := tw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected track writer *sim.StdoutWriter, got %T", tw)
	}
	if _, ok := ew.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected event writer *sim.StdoutWriter, got %T", ew)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	sw, _, _, cleanup, err := newWriters(false, false, "", "s1")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := sw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", sw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sonar.log")
	sw, _, ew, cleanup, err := newWriters(true, false, path, "s1")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := sw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", sw)
	}
	row := telemetry.SonarRow{ScenarioID: "s1", Bearing: 0, LevelDB: 55, Timestamp: time.Now()}
	if err := sw.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ev := telemetry.EventRow{ScenarioID: "s1", EventType: telemetry.EventFire, Timestamp: time.Now()}
	if err := ew.WriteEvent(ev); err != nil {
		t.Fatalf("write event failed: %v", err)
	}
	cleanup()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	evInfo, err := os.Stat(path + ".events")
	if err != nil {
		t.Fatalf("stat events failed: %v", err)
	}
	if evInfo.Size() == 0 {
		t.Fatalf("expected event file to be non-empty")
	}
}
