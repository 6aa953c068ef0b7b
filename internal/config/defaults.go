package config

import "tidydir/internal/category"

const (
	defaultStateDir         = "~/.local/share/tidydir"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultDirMode          = 0o755
	defaultJournalKeepRuns  = 200
	defaultOnError          = OnErrorAbort
	defaultOnExists         = OnExistsError
	defaultCategoryConflict = CategoryConflictError
	defaultCrossDevice      = CrossDeviceCopy
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Organize: Organize{
			OthersLabel:      category.DefaultOthersLabel,
			OnError:          defaultOnError,
			OnExists:         defaultOnExists,
			CategoryConflict: defaultCategoryConflict,
			CrossDevice:      defaultCrossDevice,
			DirMode:          defaultDirMode,
		},
		Journal: Journal{
			Enabled:  true,
			KeepRuns: defaultJournalKeepRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
