package config

import "time"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Capture: CaptureConfig{
			Mode:       "on_failure",
			FilePrefix: "screenshot_",
			Timeout:    10 * time.Second,
			FullPage:   false,
		},
		Report: ReportConfig{
			OutputPath: "",
			Title:      "Test journal",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
