package config

import (
	"fmt"
	"os"
	"strings"

	"tidydir/internal/category"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeJournal()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TIDYDIR_STATE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StateDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.OthersLabel = strings.TrimSpace(c.Organize.OthersLabel)
	if c.Organize.OthersLabel == "" {
		c.Organize.OthersLabel = category.DefaultOthersLabel
	}
	c.Organize.OnError = normalizeChoice(c.Organize.OnError, defaultOnError)
	c.Organize.OnExists = normalizeChoice(c.Organize.OnExists, defaultOnExists)
	c.Organize.CategoryConflict = normalizeChoice(c.Organize.CategoryConflict, defaultCategoryConflict)
	c.Organize.CrossDevice = normalizeChoice(c.Organize.CrossDevice, defaultCrossDevice)
	if c.Organize.DirMode <= 0 {
		c.Organize.DirMode = defaultDirMode
	}
}

func (c *Config) normalizeJournal() {
	if c.Journal.KeepRuns < 0 {
		c.Journal.KeepRuns = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("TIDYDIR_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeChoice(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
