package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/equinor/runcirrus/internal/config"
	"github.com/equinor/runcirrus/internal/telemetry"
)

// A --print-job-script run never dispatches, but it still resolves a full
// job and must leave a telemetry record like any other run.
func TestPrintJobScriptRunIsRecorded(t *testing.T) {
	versions := filepath.Join(t.TempDir(), "versions")
	if err := os.MkdirAll(filepath.Join(versions, "stable"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.VersionsPathEnv, versions)

	caseDir := t.TempDir()
	input := filepath.Join(caseDir, "SPE1.in")
	if err := os.WriteFile(input, []byte("GRID\n"), 0o664); err != nil {
		t.Fatal(err)
	}

	sink := filepath.Join(t.TempDir(), "telemetry.jsonl")
	viper.Set("telemetry.enabled", true)
	viper.Set("telemetry.path", sink)
	t.Cleanup(func() {
		viper.Set("telemetry.enabled", false)
		viper.Set("telemetry.path", "")
		config.Global.TelemetryEnabled = false
		config.Global.TelemetryPath = ""
	})

	rootCmd.SetArgs([]string{"--print-job-script", input})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(sink)
	if err != nil {
		t.Fatalf("telemetry record not written: %v", err)
	}

	var rec telemetry.JobStart
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if rec.Type != "runcirrus" {
		t.Errorf("Type = %q, want runcirrus", rec.Type)
	}
	if rec.Version != "stable" {
		t.Errorf("Version = %q, want stable", rec.Version)
	}
	if rec.Queue != "local" {
		t.Errorf("Queue = %q, want local", rec.Queue)
	}
	if rec.TotalTasks < 1 {
		t.Errorf("TotalTasks = %d, want at least 1", rec.TotalTasks)
	}
}
