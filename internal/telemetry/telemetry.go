// Package telemetry emits a single structured record per launch. The sink is
// a plain JSON-lines file; deployments wanting a real telemetry service can
// point the configured path at a collector fifo or replace this package.
package telemetry

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/equinor/runcirrus/internal/config"
	"github.com/equinor/runcirrus/internal/utils"
)

// JobStart describes a job at the moment of dispatch. Everything here must
// be gathered before launch: the exec call that follows is terminal.
type JobStart struct {
	Type            string `json:"type"`
	Script          string `json:"script"`
	Version         string `json:"version"`
	TasksPerMachine int    `json:"num_tasks_per_machine"`
	Machines        int    `json:"num_machines"`
	TotalTasks      int    `json:"num_tasks"`
	Queue           string `json:"queue"`
	Backend         string `json:"backend"`
	HaveBsub        bool   `json:"bsub"`
	HaveQsub        bool   `json:"qsub"`
	Hostname        string `json:"hostname"`
}

// AnonymizeFQDN strips the host part of a fully-qualified domain name,
// keeping only the domain suffix. Names without a dot anonymize to "".
func AnonymizeFQDN(fqdn string) string {
	index := strings.Index(fqdn, ".")
	if index < 0 {
		return ""
	}
	return fqdn[index:]
}

// Emit appends the record to the configured sink. Telemetry is best-effort:
// failures are logged at debug level and never block the launch.
func Emit(record JobStart) {
	if !config.Global.TelemetryEnabled || config.Global.TelemetryPath == "" {
		return
	}

	record.Type = "runcirrus"

	line, err := json.Marshal(record)
	if err != nil {
		utils.PrintDebug("telemetry: marshal failed: %v", err)
		return
	}

	f, err := os.OpenFile(config.Global.TelemetryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, utils.PermFile)
	if err != nil {
		utils.PrintDebug("telemetry: open %s failed: %v", config.Global.TelemetryPath, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		utils.PrintDebug("telemetry: write failed: %v", err)
	}
}
