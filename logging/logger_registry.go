package logging

import (
	"regexp"
	"sync"
)

// Registry tracks named loggers so that level patterns can be applied to them, including to
// loggers registered after the patterns were set.
type Registry struct {
	mu           sync.RWMutex
	loggers      map[string]Logger
	logConfig    []LoggerPatternConfig
	defaultLevel Level
}

// NewRegistry returns an empty registry. Loggers no pattern matches are set to defaultLevel.
func NewRegistry(defaultLevel Level) *Registry {
	return &Registry{
		loggers:      make(map[string]Logger),
		defaultLevel: defaultLevel,
	}
}

func (lr *Registry) loggerNamed(name string) (logger Logger, ok bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok = lr.loggers[name]
	return
}

// levelFor returns the level of the last pattern matching name. Invalid patterns and levels
// are skipped; UpdateConfig reports them.
func (lr *Registry) levelFor(name string) Level {
	level := lr.defaultLevel
	for _, lpc := range lr.logConfig {
		if !ValidatePattern(lpc.Pattern) {
			continue
		}
		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil || !r.MatchString(name) {
			continue
		}
		if matched, err := LevelFromString(lpc.Level); err == nil {
			level = matched
		}
	}
	return level
}

// UpdateConfig replaces the level patterns and reapplies them to every registered logger.
// Patterns or levels that do not parse are reported to errorLogger and skipped.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) {
	for _, lpc := range logConfig {
		if !ValidatePattern(lpc.Pattern) {
			errorLogger.Warnw("failed to validate a pattern", "pattern", lpc.Pattern)
			continue
		}
		if _, err := LevelFromString(lpc.Level); err != nil {
			errorLogger.Warnw("failed to parse a level", "pattern", lpc.Pattern, "level", lpc.Level)
		}
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.logConfig = logConfig
	for name, logger := range lr.loggers {
		logger.SetLevel(lr.levelFor(name))
	}
}

// GetOrRegister either returns the logger already registered under name or registers logger
// under name and sets its level from the current patterns.
//
// Concurrent callers registering the same name all get the winner's logger back.
func (lr *Registry) GetOrRegister(name string, logger Logger) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if existingLogger, ok := lr.loggers[name]; ok {
		return existingLogger
	}

	lr.loggers[name] = logger
	logger.SetLevel(lr.levelFor(name))
	return logger
}

func (lr *Registry) getCurrentConfig() []LoggerPatternConfig {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return lr.logConfig
}
