package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appDirName     = "desktop-fences"
	winAppDirName  = "DesktopFences"
	configFileName = "config.yaml"
	envPrefix      = "FENCES"
)

// Orphan ordering policies for rename recovery.
const (
	OrphanOrderLexical     = "lexical"
	OrphanOrderEnumeration = "enumeration"
)

// Config is the full application configuration.
type Config struct {
	DataDir        string          `mapstructure:"data_dir"         yaml:"data_dir"`
	StagingDirName string          `mapstructure:"staging_dir_name" yaml:"staging_dir_name"`
	Reconcile      ReconcileConfig `mapstructure:"reconcile"        yaml:"reconcile"`
	Gesture        GestureConfig   `mapstructure:"gesture"          yaml:"gesture"`
	Fence          FenceConfig     `mapstructure:"fence"            yaml:"fence"`
	Log            LogConfig       `mapstructure:"log"              yaml:"log"`
}

// ReconcileConfig tunes the staging-directory reconciliation.
type ReconcileConfig struct {
	Debounce    time.Duration `mapstructure:"debounce"     yaml:"debounce"`
	OrphanOrder string        `mapstructure:"orphan_order" yaml:"orphan_order"`
}

// GestureConfig tunes desktop gesture detection.
type GestureConfig struct {
	MinDragSize  int    `mapstructure:"min_drag_size"  yaml:"min_drag_size"`
	DragModifier string `mapstructure:"drag_modifier"  yaml:"drag_modifier"`
	QueueSize    int    `mapstructure:"queue_size"     yaml:"queue_size"`
	NewFenceName string `mapstructure:"new_fence_name" yaml:"new_fence_name"`
}

// FenceConfig holds defaults for newly created fences.
type FenceConfig struct {
	DefaultBounds string `mapstructure:"default_bounds" yaml:"default_bounds"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StagingDir returns the absolute staging directory.
func (c *Config) StagingDir() string {
	return filepath.Join(c.DataDir, c.StagingDirName)
}

// LoadOptions carries command-line overrides. Empty fields are ignored.
type LoadOptions struct {
	ConfigFile string
	DataDir    string
	LogLevel   string
}

// DefaultDataDir returns the per-user data root: %LOCALAPPDATA% on Windows,
// the XDG data home elsewhere.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, winAppDirName), nil
		}
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, winAppDirName), nil
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

func setDefaults(v *viper.Viper) {
	if dir, err := DefaultDataDir(); err == nil {
		v.SetDefault("data_dir", dir)
	}
	v.SetDefault("staging_dir_name", "__staged")
	v.SetDefault("reconcile.debounce", "500ms")
	v.SetDefault("reconcile.orphan_order", OrphanOrderLexical)
	v.SetDefault("gesture.min_drag_size", 30)
	v.SetDefault("gesture.drag_modifier", "alt")
	v.SetDefault("gesture.queue_size", 256)
	v.SetDefault("gesture.new_fence_name", "New fence")
	v.SetDefault("fence.default_bounds", "100,250,300,300")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads defaults, the optional config file, FENCES_* environment
// variables and the given overrides, in increasing priority.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}
	if opts.LogLevel != "" {
		v.Set("log.level", opts.LogLevel)
	}

	configFile := opts.ConfigFile
	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(v.GetString("data_dir"), configFileName)
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file at %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Reconcile.OrphanOrder = strings.ToLower(strings.TrimSpace(cfg.Reconcile.OrphanOrder))
	cfg.Gesture.DragModifier = strings.ToLower(strings.TrimSpace(cfg.Gesture.DragModifier))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
}
