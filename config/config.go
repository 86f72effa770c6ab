// Package config loads dwift settings from defaults, an optional config file
// and DWIFT_* environment variables, using viper.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "DWIFT"

// Settings configures the dwolla client and the CLI around it.
type Settings struct {
	Host      string        `mapstructure:"host"`
	Token     string        `mapstructure:"token"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Log       LogSettings   `mapstructure:"log"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults are applied before any file or environment value.
var Defaults = map[string]any{
	"host":       "https://uat.dwolla.com/oauth/rest",
	"timeout":    time.Duration(0),
	"log.level":  "info",
	"log.format": "text",
}

// Loader owns a viper instance and the most recently decoded Settings.
type Loader struct {
	v        *viper.Viper
	path     string
	value    Settings
	mu       sync.RWMutex
	watchers []func(old, new Settings)
}

type Option func(*Loader)

// WithFile reads settings from path. The format follows the file extension.
func WithFile(path string) Option {
	return func(l *Loader) { l.path = path }
}

// WithFlags lets explicitly set command line flags win over every other source.
// Flag names use dashes where keys use underscores or dots ("log-level" → "log.level").
func WithFlags(fs *pflag.FlagSet) Option {
	return func(l *Loader) {
		if fs == nil {
			return
		}
		fs.VisitAll(func(f *pflag.Flag) {
			key := strings.NewReplacer("log-", "log.", "-", "_").Replace(f.Name)
			if _, known := Defaults[key]; known || key == "token" || key == "user_agent" {
				_ = l.v.BindPFlag(key, f)
			}
		})
	}
}

// Load builds a Loader and decodes the initial Settings.
func Load(opts ...Option) (*Loader, error) {
	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}
	// Keys without a default still need to be known for env lookups during Unmarshal.
	v.SetDefault("token", "")
	v.SetDefault("user_agent", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &Loader{v: v}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	if l.path != "" {
		v.SetConfigFile(l.path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", l.path, err)
		}
	}

	s, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.value = s
	return l, nil
}

// Settings returns the current settings.
func (l *Loader) Settings() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value
}

// OnChange registers a callback for Watch.
func (l *Loader) OnChange(callback func(old, new Settings)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers, callback)
}

// Watch reloads the config file when it changes and notifies OnChange callbacks
// with the old and new settings. Events are debounced by 100ms. It is a no-op
// without a config file.
func (l *Loader) Watch() {
	if l.path == "" {
		return
	}
	var (
		debounceTimer *time.Timer
		debounceMu    sync.Mutex
	)

	l.v.OnConfigChange(func(_ fsnotify.Event) {
		debounceMu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(100*time.Millisecond, l.reload)
		debounceMu.Unlock()
	})
	l.v.WatchConfig()
}

func (l *Loader) reload() {
	l.mu.Lock()
	old := l.value
	if err := l.v.ReadInConfig(); err != nil {
		l.mu.Unlock()
		return
	}
	s, err := l.decode()
	if err != nil {
		l.mu.Unlock()
		return
	}
	l.value = s
	watchers := make([]func(old, new Settings), len(l.watchers))
	copy(watchers, l.watchers)
	l.mu.Unlock()

	if reflect.DeepEqual(old, s) {
		return
	}
	for _, cb := range watchers {
		func() {
			defer func() { _ = recover() }()
			cb(old, s)
		}()
	}
}

func (l *Loader) decode() (Settings, error) {
	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	s.Host = strings.TrimRight(strings.TrimSpace(s.Host), "/")
	if s.Host == "" {
		return Settings{}, fmt.Errorf("config: host must not be empty")
	}
	return s, nil
}
