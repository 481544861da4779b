package sim

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"subsim/internal/telemetry"
)

type mockGreptimeClient struct {
	tables []*table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.tables = append(m.tables, tables...)
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterSonarBatch(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.SonarRow{
		{ScenarioID: "s1", Bearing: 0, LevelDB: 55, Timestamp: ts},
		{ScenarioID: "s1", Bearing: 3, LevelDB: 62, Timestamp: ts},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sonarTable: "sonar_bearing"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(m.tables) != 1 {
		t.Fatalf("expected one table write, got %d", len(m.tables))
	}
}

func TestGreptimeWriterEmptyBatchSkipsClient(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sonarTable: "sonar_bearing", eventTable: "combat_event"}

	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil): %v", err)
	}
	if err := w.WriteEvents(nil); err != nil {
		t.Fatalf("WriteEvents(nil): %v", err)
	}
	if len(m.tables) != 0 {
		t.Fatalf("client called for empty batch: %d tables", len(m.tables))
	}
}

func TestGreptimeWriterEvents(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, eventTable: "combat_event"}

	ev := telemetry.EventRow{
		ScenarioID: "s1",
		EventType:  telemetry.EventFire,
		SourceID:   "Sierra-1",
		TargetID:   "OWNSHIP",
		Bearing:    270,
		Timestamp:  time.Unix(0, 0).UTC(),
	}
	if err := w.WriteEvent(ev); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if len(m.tables) != 1 {
		t.Fatalf("expected one table write, got %d", len(m.tables))
	}
}
