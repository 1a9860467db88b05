// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting the decompiler's
// configuration: the curated speaker and choice-word tables, the ordered
// bytecode pattern rules, and the heuristic thresholds of the combining
// engine. A loaded Config is an immutable snapshot; nothing mutates it
// during a run.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
)

// PatternRule is one ordered bytecode-detection rule: a case-insensitive
// regular expression and the reason text matching it is rejected. New
// patterns are additive configuration, not new control flow.
type PatternRule struct {
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
}

// Heuristics holds the empirically tuned thresholds. They are heuristic
// approximations refined against real binaries, not format invariants, so
// they live in configuration.
type Heuristics struct {
	ChoiceWindow       int     `json:"choiceWindow,omitempty"`
	BytecodeWordRatio  float64 `json:"bytecodeWordRatio,omitempty"`
	MaxQuoteLookahead  int     `json:"maxQuoteLookahead,omitempty"`
	MaxPlaceholderScan int     `json:"maxPlaceholderScan,omitempty"`
	MaxDeclaredSize    int     `json:"maxDeclaredSize,omitempty"`
}

// Config represents the top-level application configuration.
type Config struct {
	SpeakerNames     []string      `json:"speakerNames"`
	ChoiceWords      []string      `json:"choiceWords"`
	BytecodePatterns []PatternRule `json:"bytecodePatterns"`
	Heuristics       Heuristics    `json:"heuristics,omitempty"`
	OutputDir        string        `json:"outputDir,omitempty"`
	LogFile          string        `json:"logFile,omitempty"`
	Debug            bool          `json:"debug"`
	ConfigPath       string        `json:"-"`
}

// Default returns the compiled-in configuration: the curated tables and
// thresholds the format was reverse-engineered with. A config file
// overrides whole sections, never individual list entries.
func Default() Config {
	return Config{
		SpeakerNames: []string{
			"pearl", "richie", "nesso", "zara", "edgar", "elza", "rath",
			"guillan", "arles", "henrietta",
			"パール", "リッチー", "ネッソ", "ザラ", "エドガー", "エルザ", "ラス",
			"ギラン", "アルル", "ヘンリエッタ",
		},
		ChoiceWords: []string{
			"yes", "no", "ok", "cancel", "accept", "decline", "close",
			"はい", "いいえ",
		},
		BytecodePatterns: []PatternRule{
			{Pattern: `^@[a-zA-Z0-9_]+$`, Reason: "at-prefixed command"},
			{Pattern: `^(edga|her|zara|ness|pear|rich|rath|elza|haniy|zk|bg)[0-9]+[a-z]*$`, Reason: "character or background id"},
			{Pattern: `^[a-z]+[0-9]+[a-z]*_[a-z]+$`, Reason: "extended variable"},
			{Pattern: `^[a-z]+[0-9]+$`, Reason: "identifier with digits"},
			{Pattern: `^sure[0-9]+$`, Reason: "flag with digits"},
			{Pattern: `^(suma|cck|scene_play|flg_memory|memory_init|memory_exit)$`, Reason: "engine instruction"},
			{Pattern: `^(switch|case|default)$`, Reason: "control flow keyword"},
			{Pattern: `^ef_[a-z0-9_]+$`, Reason: "screen effect code"},
			{Pattern: `^(select|export_data|COLLECTION_LINK)$`, Reason: "ui or export marker"},
			{Pattern: `^[A-Z][a-z]+_(bad|good)_end$`, Reason: "route ending flag"},
			{Pattern: `^TrueEnd$`, Reason: "route ending flag"},
			{Pattern: `^(Release|Rute_count|LH_sel)_[A-Za-z0-9_]*$`, Reason: "system variable"},
			{Pattern: `^[A-Z][a-z]+_[A-Za-z_]+$`, Reason: "system flag"},
			{Pattern: `^[a-z]{3,5}$`, Reason: "short bytecode identifier"},
		},
		Heuristics: Heuristics{
			ChoiceWindow:       50,
			BytecodeWordRatio:  0.85,
			MaxQuoteLookahead:  12,
			MaxPlaceholderScan: 500,
			MaxDeclaredSize:    10000,
		},
	}
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "stcm2l.log"
}

// Load reads the application configuration from the specified path, with
// fallback to a legacy path. Sections absent from the file keep their
// compiled-in defaults; a missing file means the defaults are the
// configuration. The file is validated against the configuration schema
// before it is accepted.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Default(), nil
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := ValidateSchema(raw); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	config := Default()
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, err
	}
	applyHeuristicDefaults(&config.Heuristics)
	if len(config.SpeakerNames) == 0 {
		return Config{}, errors.New("config must list at least one speaker name")
	}
	return config, nil
}

// applyHeuristicDefaults fills zero-valued thresholds so a partial
// heuristics block cannot disable a bound entirely.
func applyHeuristicDefaults(h *Heuristics) {
	d := Default().Heuristics
	if h.ChoiceWindow <= 0 {
		h.ChoiceWindow = d.ChoiceWindow
	}
	if h.BytecodeWordRatio <= 0 {
		h.BytecodeWordRatio = d.BytecodeWordRatio
	}
	if h.MaxQuoteLookahead <= 0 {
		h.MaxQuoteLookahead = d.MaxQuoteLookahead
	}
	if h.MaxPlaceholderScan <= 0 {
		h.MaxPlaceholderScan = d.MaxPlaceholderScan
	}
	if h.MaxDeclaredSize <= 0 {
		h.MaxDeclaredSize = d.MaxDeclaredSize
	}
}
