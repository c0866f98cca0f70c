package config

const (
	defaultOutputDir        = "~/.local/share/censorr/output"
	defaultLogDir           = "~/.local/share/censorr/logs"
	defaultTermsPath        = "~/.config/censorr/profanity_list.json"
	defaultFuzzyThreshold   = 85
	defaultMergeTolerance   = 0.25
	defaultGuardBandSeconds = 0.1
	defaultQCThresholdDB    = -20.0
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			TermsPath: defaultTermsPath,
		},
		Matching: Matching{
			DefaultFuzzyThreshold: defaultFuzzyThreshold,
		},
		Timing: Timing{
			MergeToleranceSeconds: defaultMergeTolerance,
			GuardBandSeconds:      defaultGuardBandSeconds,
		},
		QC: QC{
			ThresholdDB: defaultQCThresholdDB,
		},
		Audio: Audio{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Languages:     []string{"en"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Cleanup: Cleanup{
			RemoveIntermediate: true,
		},
	}
}
