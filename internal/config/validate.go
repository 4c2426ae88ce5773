package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fjglira/GoE2E-Journal/pkg/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if _, err := domain.ParseCaptureMode(cfg.Capture.Mode); err != nil {
		names := make([]string, len(domain.CaptureModes))
		for i, m := range domain.CaptureModes {
			names[i] = string(m)
		}
		errs = append(errs, fmt.Sprintf("capture.mode must be one of: %s (got %q)", strings.Join(names, ", "), cfg.Capture.Mode))
	}

	// The prefix becomes part of a cleanup glob, so it must stay a plain file name.
	if strings.ContainsAny(cfg.Capture.FilePrefix, `/\`) {
		errs = append(errs, "capture.file_prefix must not contain path separators")
	}
	if strings.ContainsAny(cfg.Capture.FilePrefix, "*?[") {
		errs = append(errs, "capture.file_prefix must not contain glob characters")
	}
	if strings.Contains(cfg.Capture.FilePrefix, ":") {
		errs = append(errs, "capture.file_prefix must not contain a colon")
	}

	if cfg.Capture.Timeout < 0 {
		errs = append(errs, "capture.timeout must not be negative")
	}

	if cfg.Report.OutputPath != "" && strings.HasSuffix(cfg.Report.OutputPath, string(filepath.Separator)) {
		errs = append(errs, "report.output_path must name a file, not a directory")
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
