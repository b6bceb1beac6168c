package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultStoreName      = "reminders.json"
	DefaultBackend        = "json"
	AppName               = "remindme"
	EnvConfigPath         = "REMINDME_CONFIG"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Edit    string `toml:"edit"`
	Delete  string `toml:"delete"`
	Help    string `toml:"help"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	Next    string `toml:"next_field"`
	Prev    string `toml:"prev_field"`
}

type NotifyConfig struct {
	Desktop bool   `toml:"desktop"`
	AppName string `toml:"app_name"`
	Timeout string `toml:"timeout"`
}

type DueCheckConfig struct {
	KeepExpired bool `toml:"keep_expired"`
}

type SchedulerConfig struct {
	Interval string `toml:"interval"`
}

type Config struct {
	StorePath string          `toml:"store_path"`
	Backend   string          `toml:"backend"`
	Notify    NotifyConfig    `toml:"notify"`
	DueCheck  DueCheckConfig  `toml:"due_check"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Keys      Keymap          `toml:"keys"`
}

// ResolveConfigPath honours $REMINDME_CONFIG, then the user config dir.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return ExpandPath(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing a default config there on first launch.
// The store lives next to the config file unless configured otherwise.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults(path)
	cfg.StorePath = ExpandPath(cfg.StorePath)
	if _, err := cfg.NotifyTimeout(); err != nil {
		return cfg, err
	}
	if _, err := cfg.SchedulerInterval(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) NotifyTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Notify.Timeout)
	if err != nil {
		return 0, fmt.Errorf("notify.timeout %q: %w", c.Notify.Timeout, err)
	}
	return d, nil
}

func (c Config) SchedulerInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scheduler.Interval)
	if err != nil {
		return 0, fmt.Errorf("scheduler.interval %q: %w", c.Scheduler.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("scheduler.interval must be positive, got %s", d)
	}
	return d, nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return p
	}
	return expanded
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults(path string) {
	def := defaultConfig(path)
	if c.StorePath == "" {
		c.StorePath = def.StorePath
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Notify.AppName == "" {
		c.Notify.AppName = def.Notify.AppName
	}
	if c.Notify.Timeout == "" {
		c.Notify.Timeout = def.Notify.Timeout
	}
	if c.Scheduler.Interval == "" {
		c.Scheduler.Interval = def.Scheduler.Interval
	}
	k, dk := &c.Keys, def.Keys
	for _, f := range []struct {
		v   *string
		def string
	}{
		{&k.Quit, dk.Quit}, {&k.Add, dk.Add}, {&k.Edit, dk.Edit}, {&k.Delete, dk.Delete},
		{&k.Help, dk.Help}, {&k.Up, dk.Up}, {&k.Down, dk.Down}, {&k.Confirm, dk.Confirm},
		{&k.Cancel, dk.Cancel}, {&k.Next, dk.Next}, {&k.Prev, dk.Prev},
	} {
		if *f.v == "" {
			*f.v = f.def
		}
	}
}

func defaultConfig(path string) Config {
	return Config{
		StorePath: filepath.Join(filepath.Dir(path), DefaultStoreName),
		Backend:   DefaultBackend,
		Notify: NotifyConfig{
			AppName: AppName,
			Timeout: "5s",
		},
		Scheduler: SchedulerConfig{
			Interval: "1m",
		},
		Keys: DefaultKeymap(),
	}
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:    "q",
		Add:     "a",
		Edit:    "e",
		Delete:  "d",
		Help:    "?",
		Up:      "k",
		Down:    "j",
		Confirm: "enter",
		Cancel:  "esc",
		Next:    "tab",
		Prev:    "shift+tab",
	}
}
