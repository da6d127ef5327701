package config

import (
	"fmt"
	"time"
)

// AppConfig is the root config for app.toml
type AppConfig struct {
	Window   WindowConfig   `toml:"window"`
	Log      LogConfig      `toml:"log"`
	Assets   AssetsConfig   `toml:"assets"`
	Rig      RigConfig      `toml:"rig"`
	Player   PlayerConfig   `toml:"player"`
	Cutscene CutsceneConfig `toml:"cutscene"`
	Debug    DebugConfig    `toml:"debug"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	TPS    int    `toml:"tps"`
}

type LogConfig struct {
	Level     string `toml:"level"` // debug, info, warn, error
	Caller    bool   `toml:"caller"`
	Timestamp bool   `toml:"timestamp"`
}

// AssetsConfig locates the game models. Model paths are relative to Dir.
type AssetsConfig struct {
	Dir              string `toml:"dir"`
	PlayerModel      string `toml:"player_model"`
	EnvironmentModel string `toml:"environment_model"` // optional
	Watch            bool   `toml:"watch"`             // invalidate cached imports on change
}

type RigConfig struct {
	EyeHeight float32    `toml:"eye_height"`
	Smoothing float32    `toml:"smoothing"` // lerp factor per frame
	TiltDeg   float32    `toml:"tilt_deg"`
	Offset    [3]float32 `toml:"offset"`
}

type PlayerConfig struct {
	Speed float32 `toml:"speed"` // units per second
}

type CutsceneConfig struct {
	AutoAdvance Duration `toml:"auto_advance"` // "0s" disables
}

type DebugConfig struct {
	Listen  string `toml:"listen"` // empty disables the debug server
	Overlay bool   `toml:"overlay"`
}

// Duration is a time.Duration written as a Go duration string ("1.5s")
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
