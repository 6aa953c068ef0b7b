package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return fmt.Errorf("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if strings.ContainsAny(c.Organize.OthersLabel, `/\`) || c.Organize.OthersLabel == "." || c.Organize.OthersLabel == ".." {
		return fmt.Errorf("organize.others_label %q must be a plain folder name", c.Organize.OthersLabel)
	}
	if err := ensureOneOf("organize.on_error", c.Organize.OnError, OnErrorAbort, OnErrorContinue); err != nil {
		return err
	}
	if err := ensureOneOf("organize.on_exists", c.Organize.OnExists, OnExistsError, OnExistsSkip, OnExistsRename, OnExistsOverwrite); err != nil {
		return err
	}
	if err := ensureOneOf("organize.category_conflict", c.Organize.CategoryConflict, CategoryConflictError, CategoryConflictSkip); err != nil {
		return err
	}
	if err := ensureOneOf("organize.cross_device", c.Organize.CrossDevice, CrossDeviceCopy, CrossDeviceError); err != nil {
		return err
	}
	if c.Organize.DirMode > 0o777 {
		return fmt.Errorf("organize.dir_mode %o must be a permission mode (<= 0o777)", c.Organize.DirMode)
	}
	if c.Organize.DirMode&0o700 != 0o700 {
		return fmt.Errorf("organize.dir_mode %o must grant the owner rwx", c.Organize.DirMode)
	}
	return nil
}

func (c *Config) validateLogging() error {
	return ensureOneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "error")
}

func ensureOneOf(key, value string, allowed ...string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s (got %q)", key, strings.Join(allowed, ", "), value)
}
