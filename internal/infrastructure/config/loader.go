package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file read by Load
const FileName = "app.toml"

// ErrInvalid is returned when a loaded config fails validation
var ErrInvalid = errors.New("invalid config")

// Loader loads the application configuration from TOML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// Load reads app.toml over the defaults and validates the result.
// Keys missing from the file keep their default; unknown keys are an error.
func (l *Loader) Load() (*AppConfig, error) {
	data, err := fs.ReadFile(l.fsys, FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse %s: %s", FileName, strict.String())
		}
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the shipped configuration
func Default() *AppConfig {
	return &AppConfig{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "stagehand",
			TPS:    60,
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
		Assets: AssetsConfig{
			Dir:         "assets",
			PlayerModel: "player.gltf",
		},
		Rig: RigConfig{
			EyeHeight: 2,
			Smoothing: 0.4,
			TiltDeg:   30,
			Offset:    [3]float32{0, 0, -30},
		},
		Player: PlayerConfig{
			Speed: 6,
		},
	}
}

// Validate rejects values the application cannot run with
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps %d must be positive", c.Window.TPS))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Assets.PlayerModel == "" {
		errs = append(errs, errors.New("assets.player_model is required"))
	}
	if c.Rig.Smoothing <= 0 || c.Rig.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("rig.smoothing %v must be in (0, 1]", c.Rig.Smoothing))
	}
	if c.Player.Speed <= 0 {
		errs = append(errs, fmt.Errorf("player.speed %v must be positive", c.Player.Speed))
	}
	if c.Cutscene.AutoAdvance.Duration < 0 {
		errs = append(errs, fmt.Errorf("cutscene.auto_advance %s must not be negative", c.Cutscene.AutoAdvance))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
