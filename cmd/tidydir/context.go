package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/journal"
	"tidydir/internal/logging"
	"tidydir/internal/organizer"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = failure.Wrap(failure.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = failure.Wrap(failure.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger writes to the command's stderr, plus the log file when configured.
// Close the returned closer when the command finishes.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile() != "" {
		return logging.NewFromConfig(cfg)
	}
	return logging.Open(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
}

// openJournal returns nil when the journal is disabled.
func (c *commandContext) openJournal(cfg *config.Config) (*journal.Store, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "journal", "open", cfg.JournalPath(), err)
	}
	return store, nil
}

// withOrganizer builds an organizer for cfg and runs fn with it. store is nil
// when the journal is disabled.
func (c *commandContext) withOrganizer(cmd *cobra.Command, cfg *config.Config, dryRun bool, fn func(*organizer.Organizer, *journal.Store) error) error {
	logger, logs, err := c.logger(cmd, cfg)
	if err != nil {
		return failure.Wrap(failure.ErrConfiguration, "logging", "init", "", err)
	}
	defer logs.Close()
	store, err := c.openJournal(cfg)
	if err != nil {
		return err
	}
	var j organizer.Journal
	if store != nil {
		defer store.Close()
		j = store
	}
	org := organizer.New(cfg, j, logger,
		organizer.WithDryRun(dryRun),
		organizer.WithOutput(cmd.OutOrStdout()),
	)
	return fn(org, store)
}

// withJournal runs fn with an open journal, failing when it is disabled.
func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := c.openJournal(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return failure.Wrap(failure.ErrValidation, "journal", "open",
			"Journal is disabled; set [journal] enabled = true", nil)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
