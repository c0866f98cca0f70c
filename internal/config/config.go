package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	TermsPath string `toml:"terms_path"`
}

// Matching contains fuzzy matcher configuration.
type Matching struct {
	// DefaultFuzzyThreshold applies to terms without a per-term override (0-100).
	DefaultFuzzyThreshold int `toml:"default_fuzzy_threshold"`
	// Workers bounds matcher fan-out across cues. 0 means one worker per CPU.
	Workers int `toml:"workers"`
}

// Timing contains mute interval construction configuration.
type Timing struct {
	// MergeToleranceSeconds combines intervals separated by less than this gap.
	MergeToleranceSeconds float64 `toml:"merge_tolerance_seconds"`
	// GuardBandSeconds pads each interval symmetrically before re-merging.
	GuardBandSeconds float64 `toml:"guard_band_seconds"`
}

// QC contains post-mute quality control configuration.
type QC struct {
	// ThresholdDB is the level floor separating muted from audible content.
	ThresholdDB float64 `toml:"threshold_db"`
}

// Audio contains external tool and track selection configuration.
type Audio struct {
	FFmpegBinary  string   `toml:"ffmpeg_binary"`
	FFprobeBinary string   `toml:"ffprobe_binary"`
	Languages     []string `toml:"languages"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Cleanup contains intermediate artifact handling configuration.
type Cleanup struct {
	// RemoveIntermediate deletes per-run scratch files under the output dir
	// after a successful run.
	RemoveIntermediate bool `toml:"remove_intermediate"`
}

// Config encapsulates all configuration values for censorr.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Matching Matching `toml:"matching"`
	Timing   Timing   `toml:"timing"`
	QC       QC       `toml:"qc"`
	Audio    Audio    `toml:"audio"`
	Logging  Logging  `toml:"logging"`
	Cleanup  Cleanup  `toml:"cleanup"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/censorr/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("censorr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories runs depend on.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MatchWorkers returns the effective matcher fan-out width.
func (c *Config) MatchWorkers() int {
	if c.Matching.Workers > 0 {
		return c.Matching.Workers
	}
	return 0
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
