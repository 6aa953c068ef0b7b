package testsupport

import (
	"path/filepath"
	"testing"

	"tidydir/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithOnError sets the failure policy.
func WithOnError(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.OnError = policy
	}
}

// WithOnExists sets the destination collision policy.
func WithOnExists(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.OnExists = policy
	}
}

// WithCategoryConflict sets the policy for files named like a category folder.
func WithCategoryConflict(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.CategoryConflict = policy
	}
}

// WithCrossDevice sets the EXDEV policy.
func WithCrossDevice(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.CrossDevice = policy
	}
}

// WithOthersLabel overrides the extension-less category label.
func WithOthersLabel(label string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.OthersLabel = label
	}
}

// WithSkipHidden toggles skipping dot files.
func WithSkipHidden(skip bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.SkipHidden = skip
	}
}

// WithJournalDisabled turns off run history.
func WithJournalDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithLogDir enables file logging under the test temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
