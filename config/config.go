// Package config holds the settings the desktop core and the X bridge
// supervisor consult directly — cursor theme, the default seat name, and
// the X bridge's enable flag and restart floor (original_source's
// struct roots_config, narrowed to the fields this module's own code
// reads; output/input/keybinding configuration belongs to the shell and
// seat layers per spec.md §1 Out of scope).
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSeatName is used when no seat name is configured
// (original_source's ROOTS_CONFIG_DEFAULT_SEAT_NAME).
const DefaultSeatName = "seat0"

// defaultCursorSize and defaultCursorImage mirror
// original_source's ROOTS_XCURSOR_SIZE/ROOTS_XCURSOR_DEFAULT.
const (
	defaultCursorSize  = 24
	defaultCursorImage = "left_ptr"
)

// defaultRestartFloor is the minimum time the X bridge must stay up
// for a client-destroy to restart it (spec.md §7).
const defaultRestartFloor = 5 * time.Second

// Duration is a time.Duration that unmarshals from YAML as a Go duration
// string ("5s", "1m30s"), since yaml.v3 has no native support for
// time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Cursor is a single seat's cursor theme override
// (original_source's struct roots_cursor_config).
type Cursor struct {
	Seat    string `yaml:"seat"`
	Theme   string `yaml:"theme"`
	Default string `yaml:"default_image"`
	Size    int    `yaml:"size"`
}

// Config is the subset of rootston's desktop/xwayland configuration this
// module's own code reads.
type Config struct {
	Xwayland     bool     `yaml:"xwayland"`
	RestartFloor Duration `yaml:"restart_floor"`
	Cursors      []Cursor `yaml:"cursors"`
}

// Default returns a Config with every field set to the same defaults
// rootston falls back to when no config file is given.
func Default() Config {
	return Config{
		Xwayland:     true,
		RestartFloor: Duration(defaultRestartFloor),
		Cursors: []Cursor{
			{Seat: DefaultSeatName, Size: defaultCursorSize, Default: defaultCursorImage},
		},
	}
}

// Load reads and parses a YAML config file at path, applying Default()
// for any field the file leaves unset. A missing file is not an error:
// it returns Default() as-is, matching rootston's "config is optional"
// behavior.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.RestartFloor == 0 {
		cfg.RestartFloor = Duration(defaultRestartFloor)
	}
	return cfg, nil
}

// CursorFor returns the cursor config for seat, or nil if none is
// configured (original_source's roots_config_get_cursor).
func (c Config) CursorFor(seat string) *Cursor {
	for i := range c.Cursors {
		if c.Cursors[i].Seat == seat {
			return &c.Cursors[i]
		}
	}
	return nil
}
