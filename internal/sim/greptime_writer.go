package sim

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"subsim/internal/telemetry"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the slice of the ingester client the writer needs,
// abstracted so tests can capture writes.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes telemetry to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client     greptimeClient
	sonarTable string
	trackTable string
	eventTable string
}

// NewGreptimeDBWriter connects to a GreptimeDB endpoint ("host:port").
// Empty table names fall back to defaults.
func NewGreptimeDBWriter(endpoint, database, sonarTable, trackTable, eventTable string) (*GreptimeDBWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		host = endpoint
		portStr = ""
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg = cfg.WithPort(port)
		}
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if sonarTable == "" {
		sonarTable = telemetry.SonarTableName
	}
	if trackTable == "" {
		trackTable = "contact_track"
	}
	if eventTable == "" {
		eventTable = "combat_event"
	}
	return &GreptimeDBWriter{
		client:     client,
		sonarTable: sonarTable,
		trackTable: trackTable,
		eventTable: eventTable,
	}, nil
}

// Write inserts a single sonar row.
func (w *GreptimeDBWriter) Write(row telemetry.SonarRow) error {
	return w.WriteBatch([]telemetry.SonarRow{row})
}

// WriteBatch inserts multiple sonar rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.SonarRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.sonarTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("scenario_id", types.STRING)
	tbl.AddTagColumn("bearing", types.FLOAT64)
	tbl.AddFieldColumn("level_db", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		if err := tbl.AddRow(r.ScenarioID, r.Bearing, r.LevelDB, r.Timestamp); err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptime sonar write failed", "err", err)
		return err
	}
	return nil
}

// WriteTrack inserts a single track row.
func (w *GreptimeDBWriter) WriteTrack(row telemetry.TrackRow) error {
	return w.WriteTracks([]telemetry.TrackRow{row})
}

// WriteTracks inserts multiple track rows.
func (w *GreptimeDBWriter) WriteTracks(rows []telemetry.TrackRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.trackTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("scenario_id", types.STRING)
	tbl.AddTagColumn("contact_id", types.STRING)
	tbl.AddFieldColumn("name", types.STRING)
	tbl.AddFieldColumn("classification", types.STRING)
	tbl.AddFieldColumn("mode", types.STRING)
	tbl.AddFieldColumn("bearing", types.FLOAT64)
	tbl.AddFieldColumn("range_yds", types.FLOAT64)
	tbl.AddFieldColumn("signal_excess", types.FLOAT64)
	tbl.AddFieldColumn("pinging", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		if err := tbl.AddRow(r.ScenarioID, r.ContactID, r.Name, r.Classification, r.Mode,
			r.Bearing, r.RangeYds, r.SignalExcess, r.Pinging, r.Timestamp); err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptime track write failed", "err", err)
		return err
	}
	return nil
}

// WriteEvent inserts a single event row.
func (w *GreptimeDBWriter) WriteEvent(ev telemetry.EventRow) error {
	return w.WriteEvents([]telemetry.EventRow{ev})
}

// WriteEvents inserts multiple event rows.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("scenario_id", types.STRING)
	tbl.AddTagColumn("event_type", types.STRING)
	tbl.AddFieldColumn("source_id", types.STRING)
	tbl.AddFieldColumn("target_id", types.STRING)
	tbl.AddFieldColumn("detail", types.STRING)
	tbl.AddFieldColumn("bearing", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		if err := tbl.AddRow(r.ScenarioID, r.EventType, r.SourceID, r.TargetID, r.Detail,
			r.Bearing, r.Timestamp); err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptime event write failed", "err", err)
		return err
	}
	return nil
}
