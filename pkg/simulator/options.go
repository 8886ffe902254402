package simulator

import (
	"time"

	"github.com/mzrn1122/SMD/pkg/common"
)

type ErrorKind struct {
	Type    string
	Message string
}

type Options struct {
	Devices []string

	IntakeInterval    time.Duration
	HeartbeatInterval time.Duration
	ErrorInterval     time.Duration

	IntakeProbability float64
	FacePassRate      float64
	IRPassRate        float64
	LoadPassRate      float64

	RSSIMin    int
	RSSIMax    int
	BatteryMin int
	BatteryMax int

	// LowBatteryPercent marks a heartbeat as warning below this level.
	LowBatteryPercent int

	ErrorProbability   float64
	WarningProbability float64
	ErrorCatalog       []ErrorKind

	ScheduleAckDelay time.Duration
}

func DefaultOptions() Options {
	return Options{
		Devices: []string{"MOCK_DEVICE_001"},

		IntakeInterval:    10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ErrorInterval:     20 * time.Second,

		IntakeProbability: 0.3,
		FacePassRate:      0.9,
		IRPassRate:        0.95,
		LoadPassRate:      0.92,

		RSSIMin:    -75,
		RSSIMax:    -45,
		BatteryMin: 85,
		BatteryMax: 100,

		LowBatteryPercent: 30,

		ErrorProbability:   0.05,
		WarningProbability: 0.5,
		ErrorCatalog: []ErrorKind{
			{Type: "Motor Jam", Message: "Motor rotation blocked. Manual intervention required."},
			{Type: "Sensor Fault", Message: "IR sensor not responding. Verification may fail."},
			{Type: "Low Battery", Message: "Battery level low. Consider replacing soon."},
			{Type: "WiFi Weak", Message: "WiFi signal strength below optimal threshold."},
		},

		ScheduleAckDelay: 500 * time.Millisecond,
	}
}

// OptionsFromConfig overlays the process configuration on the defaults.
func OptionsFromConfig(cfg *common.Config) Options {
	opts := DefaultOptions()
	if len(cfg.SimDevices) > 0 {
		opts.Devices = cfg.SimDevices
	}
	if cfg.SimIntakeInterval > 0 {
		opts.IntakeInterval = cfg.SimIntakeInterval
	}
	if cfg.SimHeartbeatInterval > 0 {
		opts.HeartbeatInterval = cfg.SimHeartbeatInterval
	}
	if cfg.SimErrorInterval > 0 {
		opts.ErrorInterval = cfg.SimErrorInterval
	}
	return opts
}
