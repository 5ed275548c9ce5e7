// Package config loads zenflow's layered configuration: defaults, then
// ~/.zenflow/config.yaml, then ./.zenflow/config.yaml, then ZENFLOW_* environment
// variables, then any flags the caller binds.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	dirName   = ".zenflow"
	fileName  = "config.yaml"
	envPrefix = "ZENFLOW"
)

type Config struct {
	AI       AIConfig       `mapstructure:"ai" yaml:"ai" json:"ai"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults" json:"defaults"`
	Canvas   CanvasConfig   `mapstructure:"canvas" yaml:"canvas" json:"canvas"`
	Gantt    GanttConfig    `mapstructure:"gantt" yaml:"gantt" json:"gantt"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui" json:"tui"`
	Web      WebConfig      `mapstructure:"web" yaml:"web" json:"web"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

type AIConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Model     string        `mapstructure:"model" yaml:"model" json:"model"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key" json:"apiKey"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	MaxTokens int64         `mapstructure:"max_tokens" yaml:"max_tokens" json:"maxTokens"`
}

type DefaultsConfig struct {
	Sprint string `mapstructure:"sprint" yaml:"sprint" json:"sprint"`
}

type CanvasConfig struct {
	DragThreshold float64 `mapstructure:"drag_threshold" yaml:"drag_threshold" json:"dragThreshold"`
	ExpandRadius  float64 `mapstructure:"expand_radius" yaml:"expand_radius" json:"expandRadius"`
	// MaxSuggestions caps the children one AI expansion adds; 0 keeps them all.
	MaxSuggestions int `mapstructure:"max_suggestions" yaml:"max_suggestions" json:"maxSuggestions"`
}

type GanttConfig struct {
	PxPerDay     float64 `mapstructure:"px_per_day" yaml:"px_per_day" json:"pxPerDay"`
	MinBarPx     float64 `mapstructure:"min_bar_px" yaml:"min_bar_px" json:"minBarPx"`
	BarPaddingPx float64 `mapstructure:"bar_padding_px" yaml:"bar_padding_px" json:"barPaddingPx"`
}

type TUIConfig struct {
	Glyphs string `mapstructure:"glyphs" yaml:"glyphs" json:"glyphs"`
	Color  string `mapstructure:"color" yaml:"color" json:"color"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file" json:"file"`
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

var defaults = map[string]any{
	"ai.enabled":             true,
	"ai.model":               "claude-sonnet-4-5",
	"ai.api_key":             "",
	"ai.timeout":             "20s",
	"ai.max_tokens":          1024,
	"defaults.sprint":        "Sprint 1",
	"canvas.drag_threshold":  4.0,
	"canvas.expand_radius":   220.0,
	"canvas.max_suggestions": 0,
	"gantt.px_per_day":       40.0,
	"gantt.min_bar_px":       40.0,
	"gantt.bar_padding_px":   20.0,
	"tui.glyphs":             "unicode",
	"tui.color":              "auto",
	"web.addr":               "127.0.0.1:7420",
	"log.file":               "",
	"log.level":              "info",
}

// Sources locates the config files. Empty fields use the real home and working dirs.
type Sources struct {
	HomeDir string
	WorkDir string
	// File, when set, replaces both discovered files.
	File string
}

// NewViper builds a viper instance with defaults, config files and environment applied.
// Missing files are not an error.
func NewViper(src Sources) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, path := range src.paths() {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (src Sources) paths() []string {
	if strings.TrimSpace(src.File) != "" {
		return []string{src.File}
	}
	home := src.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	wd := src.WorkDir
	if wd == "" {
		wd, _ = os.Getwd()
	}
	var out []string
	if home != "" {
		out = append(out, filepath.Join(home, dirName, fileName))
	}
	if wd != "" {
		p := filepath.Join(wd, dirName, fileName)
		if len(out) == 0 || p != out[0] {
			out = append(out, p)
		}
	}
	return out
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals v and applies the ANTHROPIC_API_KEY fallback.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewViper followed by Decode.
func Load(src Sources) (*Config, error) {
	v, err := NewViper(src)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.TUI.Glyphs) {
	case "unicode", "ascii":
	default:
		return fmt.Errorf("invalid tui.glyphs: %q (want unicode|ascii)", c.TUI.Glyphs)
	}
	switch strings.ToLower(c.TUI.Color) {
	case "auto", "none":
	default:
		return fmt.Errorf("invalid tui.color: %q (want auto|none)", c.TUI.Color)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	if c.Canvas.DragThreshold < 0 {
		return fmt.Errorf("invalid canvas.drag_threshold: %v", c.Canvas.DragThreshold)
	}
	if c.Canvas.MaxSuggestions < 0 {
		return fmt.Errorf("invalid canvas.max_suggestions: %d", c.Canvas.MaxSuggestions)
	}
	if c.Gantt.PxPerDay <= 0 {
		return fmt.Errorf("invalid gantt.px_per_day: %v", c.Gantt.PxPerDay)
	}
	return nil
}

// AIAvailable reports whether a collaborator can be built.
func (c *Config) AIAvailable() bool {
	return c.AI.Enabled && strings.TrimSpace(c.AI.APIKey) != ""
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if k := c.AI.APIKey; k != "" {
		if len(k) > 8 {
			c.AI.APIKey = k[:4] + "…" + k[len(k)-4:]
		} else {
			c.AI.APIKey = "…"
		}
	}
	return c
}
