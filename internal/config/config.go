// Package config loads the game's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"raypick/internal/anim"
	"raypick/internal/assets"
	"raypick/internal/engine"
	"raypick/internal/interact"
	"raypick/internal/picking"
)

// DefaultPath is relative to the process working directory.
const DefaultPath = "config/raypick.yaml"

type Config struct {
	Window  Window       `yaml:"window"`
	Camera  Camera       `yaml:"camera"`
	Session Session      `yaml:"session"`
	Spawn   Spawn        `yaml:"spawn"`
	Rules   []RuleConfig `yaml:"rules"`
	Picking Picking      `yaml:"picking"`
	Assets  Assets       `yaml:"assets"`
	Audio   Audio        `yaml:"audio"`
	Log     Log          `yaml:"log"`
}

type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Font      string `yaml:"font"` // TTF for the HUD; empty uses raylib's built-in font
}

type Camera struct {
	Position [3]float32 `yaml:"position,flow"`
	FovY     float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

type Session struct {
	Length         time.Duration `yaml:"length"`
	InitialObjects int           `yaml:"initial_objects"`
}

// Spawn places new objects: X is one of Lanes, Y is uniform in [YMin, YMax),
// Z is fixed.
type Spawn struct {
	Prefab string    `yaml:"prefab"`
	Lanes  []float32 `yaml:"lanes,flow"`
	YMin   float32   `yaml:"y_min"`
	YMax   float32   `yaml:"y_max"`
	Z      float32   `yaml:"z"`
	Seed   uint64    `yaml:"seed"` // 0 picks a time-based seed
}

// RuleConfig names a registered animation rule. The bob step is applied once
// per tick, so the bob speed follows the frame rate.
type RuleConfig struct {
	Name  string         `yaml:"name"`
	Props map[string]any `yaml:"props"`
}

type Picking struct {
	HoverPolicy string `yaml:"hover_policy"`
	ClickPolicy string `yaml:"click_policy"`
	Highlight   string `yaml:"highlight"`
}

type Assets struct {
	Root        string        `yaml:"root"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float32 `yaml:"volume"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Default mirrors the shipped config file.
func Default() Config {
	return Config{
		Window: Window{Title: "raypick", Width: 1280, Height: 720, TargetFPS: 60},
		Camera: Camera{Position: [3]float32{0, 0, 0}, FovY: 70, Near: 1, Far: 10000},
		Session: Session{
			Length:         interact.DefaultSessionLength,
			InitialObjects: 10,
		},
		Spawn: Spawn{
			Prefab: "prefabs/penguin.yaml",
			Lanes:  []float32{-250, 250},
			YMin:   -100,
			YMax:   200,
			Z:      -200,
		},
		Rules: []RuleConfig{
			{Name: "rotate", Props: map[string]any{"duration": "5s", "axis": []any{0, 1, 0}}},
			{Name: "bob", Props: map[string]any{"bound": 12, "step": 0.5, "ratio": 0.5}},
			{Name: "drift", Props: map[string]any{"speed_x": 60, "speed_y": 3}},
		},
		Picking: Picking{HoverPolicy: "nearest", ClickPolicy: "nearest", Highlight: "#ff0000"},
		Assets:  Assets{Root: "assets", LoadTimeout: assets.DefaultLoadTimeout},
		Audio:   Audio{Enabled: true, Volume: 0.6},
		Log:     Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w: %w", engine.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, engine.ErrConfiguration)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.Font != "" {
		if _, err := os.Stat(c.Window.Font); err != nil {
			bad("window font %q not readable", c.Window.Font)
		}
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		bad("camera fov %v out of range", c.Camera.FovY)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("camera clip range [%v, %v] invalid", c.Camera.Near, c.Camera.Far)
	}
	if c.Session.Length <= 0 {
		bad("session length %v must be positive", c.Session.Length)
	}
	if c.Session.InitialObjects < 0 {
		bad("initial objects %d must not be negative", c.Session.InitialObjects)
	}
	if c.Spawn.Prefab == "" {
		bad("spawn prefab is empty")
	}
	if len(c.Spawn.Lanes) == 0 {
		bad("spawn needs at least one lane")
	}
	if c.Spawn.YMax < c.Spawn.YMin {
		bad("spawn y range [%v, %v) invalid", c.Spawn.YMin, c.Spawn.YMax)
	}
	for _, r := range c.Rules {
		if _, err := anim.CreateRule(r.Name, r.Props); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := picking.ParsePolicy(c.Picking.HoverPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := picking.ParsePolicy(c.Picking.ClickPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.Assets.LoadTimeout <= 0 {
		bad("asset load timeout %v must be positive", c.Assets.LoadTimeout)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		bad("audio volume %v outside [0, 1]", c.Audio.Volume)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HighlightColor parses the hover colour, falling back to red.
func (p Picking) HighlightColor() uint32 {
	if p.Highlight == "" {
		return interact.DefaultHighlight
	}
	return assets.LookupColor(p.Highlight)
}

func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", l.Level, engine.ErrConfiguration)
	}
	return level, nil
}
