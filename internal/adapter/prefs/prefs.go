// Package prefs persists operator preferences in a YAML file.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const ExportVersion = 1

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	KeyTheme                   = "theme"
	KeySyncOnlyOnWifi          = "sync_only_on_wifi"
	KeyNotificationsSLA        = "notifications.sla"
	KeyNotificationsAssignment = "notifications.assignment"
	KeyNotificationsChecklist  = "notifications.checklist"
)

var ErrUnknownKey = errors.New("unknown preference")

var defaults = map[string]interface{}{
	KeyTheme:                   string(ThemeSystem),
	KeySyncOnlyOnWifi:          false,
	KeyNotificationsSLA:        true,
	KeyNotificationsAssignment: true,
	KeyNotificationsChecklist:  false,
}

type Notifications struct {
	SLA        bool `mapstructure:"sla" json:"sla"`
	Assignment bool `mapstructure:"assignment" json:"assignment"`
	Checklist  bool `mapstructure:"checklist" json:"checklist"`
}

type Preferences struct {
	Theme          Theme         `mapstructure:"theme" json:"theme"`
	SyncOnlyOnWifi bool          `mapstructure:"sync_only_on_wifi" json:"sync_only_on_wifi"`
	Notifications  Notifications `mapstructure:"notifications" json:"notifications"`
}

type Export struct {
	Version     int         `json:"version"`
	ExportedAt  time.Time   `json:"exported_at"`
	Preferences Preferences `json:"preferences"`
}

type Store struct {
	v    *viper.Viper
	path string
}

// DefaultPath is ~/.taskflow/preferences.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskflow", "preferences.yaml")
	}
	return filepath.Join(home, ".taskflow", "preferences.yaml")
}

// Open reads path if it exists. A missing file yields the defaults.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read preferences: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat preferences: %w", err)
	}
	return &Store{v: v, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (Preferences, error) {
	var p Preferences
	if err := s.v.Unmarshal(&p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	if !p.Theme.valid() {
		p.Theme = ThemeSystem
	}
	return p, nil
}

// Get returns the value of one key as text.
func (s *Store) Get(key string) (string, error) {
	if _, ok := defaults[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.v.GetString(key), nil
}

// Set validates and persists one key.
func (s *Store) Set(key, value string) error {
	var parsed interface{}
	switch key {
	case KeyTheme:
		theme := Theme(value)
		if !theme.valid() {
			return fmt.Errorf("invalid theme %q (want light, dark or system)", value)
		}
		parsed = string(theme)
	case KeySyncOnlyOnWifi, KeyNotificationsSLA, KeyNotificationsAssignment, KeyNotificationsChecklist:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
		parsed = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	s.v.Set(key, parsed)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// ExportJSON returns the preferences in the portable export format.
func (s *Store) ExportJSON(now time.Time) ([]byte, error) {
	p, err := s.Load()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(Export{Version: ExportVersion, ExportedAt: now.UTC(), Preferences: p}, "", "  ")
}

func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (t Theme) valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}
