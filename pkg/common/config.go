package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration assembled from the environment (and the
// .env file loaded by cmd/server).
type Config struct {
	DBType string
	DBPath string

	HttpHostPort string
	GrpcHostPort string

	DefaultRate  float64
	DefaultBurst int
	OfflineAfter time.Duration

	Simulation           bool
	SimDevices           []string
	SimSeed              uint64
	SimIntakeInterval    time.Duration
	SimHeartbeatInterval time.Duration
	SimErrorInterval     time.Duration
}

func getenv(key, fallback string) string {
	if v, found := os.LookupEnv(key); found && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s, should be a duration like 30s: %w", key, err)
	}
	return d, nil
}

func LoadConfig() (*Config, error) {
	var err error

	cfg := &Config{
		DBType:       getenv(EnvKeySMDDBType, "memory"),
		DBPath:       getenv(EnvKeySMDDbPath, "smd.db"),
		HttpHostPort: getenv(EnvKeySMDHttpHostPort, ":1080"),
		GrpcHostPort: getenv(EnvKeySMDGrpcHostPort, ""),
		Simulation:   getenv(EnvKeySMDSimulation, "false") == "true",
		SimDevices:   strings.Split(getenv(EnvKeySMDSimDevices, "MOCK_DEVICE_001"), ","),
	}

	if cfg.DBType != "file" && cfg.DBType != "memory" {
		return nil, fmt.Errorf("unknown %s: %s", EnvKeySMDDBType, cfg.DBType)
	}

	if cfg.DefaultRate, err = strconv.ParseFloat(getenv(EnvKeySMDDefaultRate, "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid %s, should be a float64 value: %w", EnvKeySMDDefaultRate, err)
	}

	if cfg.DefaultBurst, err = strconv.Atoi(getenv(EnvKeySMDDefaultBurst, "10")); err != nil {
		return nil, fmt.Errorf("invalid %s, should be an int value: %w", EnvKeySMDDefaultBurst, err)
	}

	if cfg.SimSeed, err = strconv.ParseUint(getenv(EnvKeySMDSimSeed, "0"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid %s, should be an unsigned int value: %w", EnvKeySMDSimSeed, err)
	}

	if cfg.OfflineAfter, err = getenvDuration(EnvKeySMDOfflineAfter, 90*time.Second); err != nil {
		return nil, err
	}
	if cfg.SimIntakeInterval, err = getenvDuration(EnvKeySMDSimIntakeInterval, 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SimHeartbeatInterval, err = getenvDuration(EnvKeySMDSimHeartbeatInterval, 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SimErrorInterval, err = getenvDuration(EnvKeySMDSimErrorInterval, 20*time.Second); err != nil {
		return nil, err
	}

	devices := make([]string, 0, len(cfg.SimDevices))
	for _, d := range cfg.SimDevices {
		if d = strings.TrimSpace(d); d != "" {
			devices = append(devices, d)
		}
	}
	cfg.SimDevices = devices

	return cfg, nil
}
