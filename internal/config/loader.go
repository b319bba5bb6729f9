package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid corridor config")

// LoadCorridor loads corridor configuration.
// Search order: customPath -> ~/.corridor/configs/corridor.yaml -> ./configs/corridor.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadCorridor(customPath string) (CorridorConfig, error) {
	cfg := DefaultCorridorConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("corridor.yaml"); userCfgPath != "" {
		if c, ok := decodeFile(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := decodeFile(filepath.Join("configs", "corridor.yaml")); ok {
		return c, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultCorridorYAML, &cfg); err != nil {
		return DefaultCorridorConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeFile reads an optional config file. Unreadable, malformed or
// invalid files are skipped.
func decodeFile(path string) (CorridorConfig, bool) {
	cfg := DefaultCorridorConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if cfg.Validate() != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".corridor", "configs", filename)
}

// ApplyCorridorPreset modifies the config based on a difficulty preset.
func ApplyCorridorPreset(cfg *CorridorConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.SpinMax = 1
	case DifficultyHard:
		cfg.Obstacles.SpinMax = 3
		cfg.Obstacles.Spacing = 8
	}
}

// Validate reports the first setting the simulation cannot run with.
func (c CorridorConfig) Validate() error {
	switch {
	case !positive(c.Physics.Gravity):
		return fmt.Errorf("%w: physics.gravity must be > 0", ErrInvalidConfig)
	case !positive(c.Physics.JumpSpeed):
		return fmt.Errorf("%w: physics.jump_speed must be > 0", ErrInvalidConfig)
	case c.Physics.Substeps < 1:
		return fmt.Errorf("%w: physics.substeps must be >= 1", ErrInvalidConfig)
	case !positive(c.Physics.FixedStep):
		return fmt.Errorf("%w: physics.fixed_step must be > 0", ErrInvalidConfig)
	case c.Physics.ContactTolerance < 0:
		return fmt.Errorf("%w: physics.contact_tolerance must be >= 0", ErrInvalidConfig)
	case !finite(c.Player.Spawn.X, c.Player.Spawn.Y, c.Player.Spawn.Z):
		return fmt.Errorf("%w: player.spawn must be finite", ErrInvalidConfig)
	case c.Physics.FallThreshold >= c.Player.Spawn.Y:
		return fmt.Errorf("%w: physics.fall_threshold must be below player.spawn.y", ErrInvalidConfig)
	case !positive(c.Player.Radius) || !positive(c.Player.Height):
		return fmt.Errorf("%w: player radius and height must be > 0", ErrInvalidConfig)
	case c.Player.Speed < 0:
		return fmt.Errorf("%w: player.speed must be >= 0", ErrInvalidConfig)
	}
	if err := c.Obstacles.validate("obstacles"); err != nil {
		return err
	}
	return c.Platforms.validate("platforms")
}

func (l TrackLayout) validate(name string) error {
	switch {
	case l.Capacity < 1:
		return fmt.Errorf("%w: %s.capacity must be >= 1", ErrInvalidConfig, name)
	case !positive(l.Spacing):
		return fmt.Errorf("%w: %s.spacing must be > 0", ErrInvalidConfig, name)
	case l.Candidates < 0:
		return fmt.Errorf("%w: %s.candidates must be >= 0", ErrInvalidConfig, name)
	case len(l.Kinds) == 0:
		return fmt.Errorf("%w: %s.kinds is empty", ErrInvalidConfig, name)
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
