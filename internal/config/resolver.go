// Package config resolves runtime settings from the config file,
// environment variables, and CLI flags, recording where each value came
// from. Precedence is CLI over environment over config file over
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a setting plus its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// Bool interprets the value as a boolean, falling back when empty or
// unparseable.
func (v ResolvedValue) Bool(fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v.Value))
	if err != nil {
		return fallback
	}
	return b
}

// Int interprets the value as an integer, falling back when empty or
// unparseable.
func (v ResolvedValue) Int(fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.Value))
	if err != nil {
		return fallback
	}
	return n
}

// Float interprets the value as a float, falling back when empty or
// unparseable.
func (v ResolvedValue) Float(fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
	if err != nil {
		return fallback
	}
	return f
}

// ResolveOptions carries CLI flag overrides into resolution.
type ResolveOptions struct {
	ConfigPath string

	CLITranscriptsDir string
	CLIContactsFile   string
	CLIOutputDir      string
	CLIDBPath         string
	CLIPrivacy        string
	CLIMinMessages    string
	CLIRecentCount    string
}

// ResolvedConfig is the full resolved settings set.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	TranscriptsDir ResolvedValue `json:"transcripts_dir"`
	ContactsFile   ResolvedValue `json:"contacts_file"`
	OutputDir      ResolvedValue `json:"output_dir"`
	DBPath         ResolvedValue `json:"db_path"`

	PrivacyEnabled ResolvedValue `json:"privacy_enabled"`
	MinMessages    ResolvedValue `json:"min_messages"`
	RecentCount    ResolvedValue `json:"recent_count"`

	GroupWindowMinutes  ResolvedValue `json:"group_window_minutes"`
	SimilarityThreshold ResolvedValue `json:"similarity_threshold"`
}

type fileConfig struct {
	TranscriptsDir string `yaml:"transcripts_dir"`
	ContactsFile   string `yaml:"contacts_file"`
	OutputDir      string `yaml:"output_dir"`
	DBPath         string `yaml:"db_path"`
	Privacy        struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"privacy"`
	Export struct {
		MinMessages *int `yaml:"min_messages"`
		RecentCount *int `yaml:"recent_count"`
	} `yaml:"export"`
	Optimize struct {
		GroupWindowMinutes  *int     `yaml:"group_window_minutes"`
		SimilarityThreshold *float64 `yaml:"similarity_threshold"`
	} `yaml:"optimize"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".msgvault", "config.yaml")
}

// ResolveConfig loads the config file and layers environment and CLI
// overrides on top. A missing config file is not an error.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.TranscriptsDir, cfg.TranscriptsDir, SourceConfig, path)
		apply(&out.ContactsFile, cfg.ContactsFile, SourceConfig, path)
		apply(&out.OutputDir, cfg.OutputDir, SourceConfig, path)
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		if cfg.Privacy.Enabled != nil {
			apply(&out.PrivacyEnabled, strconv.FormatBool(*cfg.Privacy.Enabled), SourceConfig, path)
		}
		if cfg.Export.MinMessages != nil {
			apply(&out.MinMessages, strconv.Itoa(*cfg.Export.MinMessages), SourceConfig, path)
		}
		if cfg.Export.RecentCount != nil {
			apply(&out.RecentCount, strconv.Itoa(*cfg.Export.RecentCount), SourceConfig, path)
		}
		if cfg.Optimize.GroupWindowMinutes != nil {
			apply(&out.GroupWindowMinutes, strconv.Itoa(*cfg.Optimize.GroupWindowMinutes), SourceConfig, path)
		}
		if cfg.Optimize.SimilarityThreshold != nil {
			apply(&out.SimilarityThreshold, strconv.FormatFloat(*cfg.Optimize.SimilarityThreshold, 'f', -1, 64), SourceConfig, path)
		}
	}

	applyEnv(&out.TranscriptsDir, "MSGVAULT_TRANSCRIPTS")
	applyEnv(&out.ContactsFile, "MSGVAULT_CONTACTS")
	applyEnv(&out.OutputDir, "MSGVAULT_OUTPUT")
	applyEnv(&out.DBPath, "MSGVAULT_DB")
	applyEnv(&out.DBPath, "MSGVAULT_DB_PATH")
	applyEnv(&out.PrivacyEnabled, "MSGVAULT_PRIVACY")
	applyEnv(&out.MinMessages, "MSGVAULT_MIN_MESSAGES")
	applyEnv(&out.RecentCount, "MSGVAULT_RECENT_COUNT")
	applyEnv(&out.GroupWindowMinutes, "MSGVAULT_GROUP_WINDOW_MINUTES")
	applyEnv(&out.SimilarityThreshold, "MSGVAULT_SIMILARITY_THRESHOLD")

	apply(&out.TranscriptsDir, opts.CLITranscriptsDir, SourceCLI, "--transcripts")
	apply(&out.ContactsFile, opts.CLIContactsFile, SourceCLI, "--contacts")
	apply(&out.OutputDir, opts.CLIOutputDir, SourceCLI, "--output")
	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.PrivacyEnabled, opts.CLIPrivacy, SourceCLI, "--privacy")
	apply(&out.MinMessages, opts.CLIMinMessages, SourceCLI, "--min-messages")
	apply(&out.RecentCount, opts.CLIRecentCount, SourceCLI, "--recent")

	applyDefault(&out.ContactsFile, "contacts.yaml")
	applyDefault(&out.OutputDir, "llm_export")
	applyDefault(&out.DBPath, "~/.msgvault/msgvault.db")
	applyDefault(&out.PrivacyEnabled, "true")
	applyDefault(&out.MinMessages, "10")
	applyDefault(&out.RecentCount, "75")
	applyDefault(&out.GroupWindowMinutes, "10")
	applyDefault(&out.SimilarityThreshold, "0.8")

	for _, v := range []*ResolvedValue{&out.TranscriptsDir, &out.ContactsFile, &out.OutputDir, &out.DBPath} {
		if v.Value != "" {
			v.Value = expandUserPath(v.Value)
		}
	}

	return out, nil
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func applyDefault(dst *ResolvedValue, value string) {
	if strings.TrimSpace(dst.Value) != "" {
		return
	}
	*dst = ResolvedValue{Value: value, Source: SourceDefault, From: "built-in default"}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
