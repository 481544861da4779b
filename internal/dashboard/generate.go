package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"subsim/internal/telemetry"
)

var templateFiles = []string{
	"grafana-sonar.json.tmpl",
}

// tables carries the GreptimeDB table names panels query. Names follow
// the writer's env overrides so a rendered dashboard matches whatever
// the simulator is actually writing to.
type tables struct {
	Sonar  string
	Tracks string
	Events string
}

func tableNames() tables {
	t := tables{
		Sonar:  telemetry.SonarTableName, // already honors GREPTIMEDB_TABLE
		Tracks: "contact_track",
		Events: "combat_event",
	}
	if v := os.Getenv("CONTACT_TRACK_TABLE"); v != "" {
		t.Tracks = v
	}
	if v := os.Getenv("COMBAT_EVENT_TABLE"); v != "" {
		t.Events = v
	}
	return t
}

func rootDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}

// Render parses the dashboard templates at the repository root and
// writes rendered Grafana dashboards to outDir.
func Render(outDir string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	base := rootDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data := tableNames()
	for _, tplName := range templateFiles {
		t, err := template.New(tplName).Funcs(funcMap).ParseFiles(filepath.Join(base, tplName))
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(tplName, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
