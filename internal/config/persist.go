package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (RUNCIRRUS_*)
// 3. User config file (~/.config/runcirrus/config.yaml)
// 4. System config file (/etc/runcirrus/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "runcirrus"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".runcirrus"))
	}

	viper.AddConfigPath("/etc/runcirrus")

	viper.SetEnvPrefix("RUNCIRRUS")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults apply
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("fallback_versions_dir", "/prog/cirrus/versions")
	viper.SetDefault("bsub_bin", "bsub")
	viper.SetDefault("qsub_bin", "qsub")
	viper.SetDefault("mpi_launcher", filepath.Join("bin", "mpirun"))
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.path", "")
}

// LoadFromViper loads config from Viper into the Global struct
func LoadFromViper() {
	if dir := viper.GetString("fallback_versions_dir"); dir != "" {
		Global.FallbackVersionsDir = dir
	}
	if bin := viper.GetString("bsub_bin"); bin != "" {
		Global.BsubBin = bin
	}
	if bin := viper.GetString("qsub_bin"); bin != "" {
		Global.QsubBin = bin
	}
	if launcher := viper.GetString("mpi_launcher"); launcher != "" {
		Global.MpiLauncher = launcher
	}
	Global.TelemetryEnabled = viper.GetBool("telemetry.enabled")
	Global.TelemetryPath = viper.GetString("telemetry.path")
}
