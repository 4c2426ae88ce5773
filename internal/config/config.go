package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoE2E-Journal/pkg/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Capture CaptureConfig `yaml:"capture"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

type CaptureConfig struct {
	Mode       string        `yaml:"mode"`
	FilePrefix string        `yaml:"file_prefix"`
	Timeout    time.Duration `yaml:"timeout"`
	FullPage   bool          `yaml:"full_page"`
}

type ReportConfig struct {
	OutputPath string `yaml:"output_path"` // screenshots land next to the report
	Title      string `yaml:"title"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, "failed to parse config file", err)
	}

	return cfg, nil
}

// CaptureMode returns the parsed capture mode.
func (c *Config) CaptureMode() (domain.CaptureMode, error) {
	return domain.ParseCaptureMode(c.Capture.Mode)
}
