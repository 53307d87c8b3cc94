// Package config loads the demo and emitter configuration from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"particle-engine/core"
	"particle-engine/particle"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of the demo.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Emitter   EmitterConfig   `yaml:"emitter"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Debug     bool            `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// EmitterConfig mirrors particle.Params plus the demo-only knobs.
type EmitterConfig struct {
	MaxParticles   int        `yaml:"max_particles"`
	SpawnRate      float32    `yaml:"spawn_rate"`
	Life           float32    `yaml:"life"`
	Position       [3]float32 `yaml:"position"`
	Speed          float32    `yaml:"speed"`
	Size           float32    `yaml:"size"`
	Weight         float32    `yaml:"weight"`
	Color          [4]float32 `yaml:"color"`
	LifeTime       float32    `yaml:"lifetime"`
	AutoDeactivate bool       `yaml:"auto_deactivate"`
	Seed           int64      `yaml:"seed"`
	Saturation     string     `yaml:"saturation"` // overwrite_slot_zero | drop_spawn
}

type CameraConfig struct {
	Eye        [3]float32 `yaml:"eye"`
	Target     [3]float32 `yaml:"target"`
	FOV        float32    `yaml:"fov"` // degrees
	OrbitSpeed float32    `yaml:"orbit_speed"`
}

type TelemetryConfig struct {
	Path       string `yaml:"path"`
	FlushEvery int    `yaml:"flush_every"`
}

// Load parses the embedded defaults, then overlays the file at path if one
// is given. Fields missing from the file keep their default.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if _, err := cfg.Params(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Params converts the emitter section into validated particle.Params.
func (c *Config) Params() (particle.Params, error) {
	policy, err := ParseSaturation(c.Emitter.Saturation)
	if err != nil {
		return particle.Params{}, err
	}
	e := c.Emitter
	p := particle.Params{
		MaxParticles: e.MaxParticles,
		SpawnRate:    e.SpawnRate,
		Life:         e.Life,
		Position:     mgl32.Vec3(e.Position),
		Speed:        e.Speed,
		Size:         e.Size,
		Weight:       e.Weight,
		Color:        core.ColorFromRGBA(e.Color),
		LifeTime:     e.LifeTime,
		Saturation:   policy,
	}
	if err := p.Validate(); err != nil {
		return particle.Params{}, fmt.Errorf("emitter config: %w", err)
	}
	return p, nil
}

// ParseSaturation maps the YAML name of a saturation policy. Empty means the
// default, overwrite_slot_zero.
func ParseSaturation(name string) (particle.SaturationPolicy, error) {
	switch name {
	case "", particle.OverwriteSlotZero.String():
		return particle.OverwriteSlotZero, nil
	case particle.DropSpawn.String():
		return particle.DropSpawn, nil
	}
	return 0, fmt.Errorf("emitter config: unknown saturation policy %q", name)
}

// WriteYAML writes the effective configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
