package config

import (
	"fmt"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/legacyimage/logging"
)

// LogFileConfig mirrors log lines into a file that is rotated by size.
type LogFileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	Compress   bool   `json:"compress,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (lc *LogFileConfig) Validate(path string) error {
	if lc.Path == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "path")
	}
	if lc.MaxSizeMB < 0 {
		return goutils.NewConfigValidationError(path, errors.New("max_size_mb must not be negative"))
	}
	if lc.MaxBackups < 0 {
		return goutils.NewConfigValidationError(path, errors.New("max_backups must not be negative"))
	}
	return nil
}

// validateLogConfig checks every level pattern of the "log" section.
func validateLogConfig(path string, patterns []logging.LoggerPatternConfig) error {
	for idx, lpc := range patterns {
		entryPath := fmt.Sprintf("%s.%d", path, idx)
		if lpc.Pattern == "" {
			return goutils.NewConfigValidationFieldRequiredError(entryPath, "pattern")
		}
		if !logging.ValidatePattern(lpc.Pattern) {
			return goutils.NewConfigValidationError(entryPath, errors.Errorf("invalid logger pattern %q", lpc.Pattern))
		}
		if _, err := logging.LevelFromString(lpc.Level); err != nil {
			return goutils.NewConfigValidationError(entryPath, err)
		}
	}
	return nil
}
