package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys read by ApplyEnvFile
const (
	EnvAddr            = "ELEVAID_ADDR"
	EnvDetectorURL     = "ELEVAID_DETECTOR_URL"
	EnvDetectorTimeout = "ELEVAID_DETECTOR_TIMEOUT"
	EnvMaxUploadBytes  = "ELEVAID_MAX_UPLOAD_BYTES"
)

// ApplyEnvFile overrides the server settings with the keys present in a
// dotenv file. Unknown keys are ignored.
func ApplyEnvFile(cfg *Config, filename string) error {
	env, err := godotenv.Read(filename)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}
	return applyEnv(cfg, env)
}

func applyEnv(cfg *Config, env map[string]string) error {
	if v, ok := env[EnvAddr]; ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := env[EnvDetectorURL]; ok {
		cfg.Server.DetectorURL = v
	}
	if v, ok := env[EnvDetectorTimeout]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s %q", EnvDetectorTimeout, v)
		}
		cfg.Server.DetectorTimeout = d
	}
	if v, ok := env[EnvMaxUploadBytes]; ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q", EnvMaxUploadBytes, v)
		}
		cfg.Server.MaxUploadBytes = n
	}
	return nil
}
