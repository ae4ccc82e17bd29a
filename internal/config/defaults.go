package config

const (
	defaultDataDir    = "~/.local/share/animopt"
	defaultLogDir     = "~/.local/share/animopt/logs"
	defaultHistoryDB  = "~/.local/share/animopt/history.db"
	defaultArchiveDir = "~/.local/share/animopt/archive"

	defaultTranslationTolerance = 1e-3
	defaultRotationDegrees      = 0.1
	defaultScaleTolerance       = 1e-3

	defaultReportSampleCount = 100

	defaultHistoryMaxRuns = 500

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			HistoryDB:  defaultHistoryDB,
			ArchiveDir: defaultArchiveDir,
		},
		Tolerances: Tolerances{
			Translation:     defaultTranslationTolerance,
			RotationDegrees: defaultRotationDegrees,
			Scale:           defaultScaleTolerance,
		},
		Report: Report{
			SampleCount: defaultReportSampleCount,
		},
		History: History{
			Enabled: true,
			MaxRuns: defaultHistoryMaxRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
