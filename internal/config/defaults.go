package config

import (
	_ "embed"
)

//go:embed defaults/corridor.yaml
var defaultCorridorYAML []byte

// DefaultCorridorConfig returns the default corridor configuration.
func DefaultCorridorConfig() CorridorConfig {
	return CorridorConfig{
		Physics: CorridorPhysics{
			Gravity:          25,
			JumpSpeed:        25.0 / 3.0,
			Substeps:         10,
			FixedStep:        1.0 / 60.0,
			FallThreshold:    -40,
			ContactTolerance: 0.05,
		},
		Player: CorridorPlayer{
			Spawn:  Vec3{X: 0, Y: 5, Z: 0},
			Radius: 0.5,
			Height: 3,
			Speed:  10,
		},
		Obstacles: TrackLayout{
			Capacity:   5,
			Spacing:    10,
			Lead:       16,
			Candidates: 3,
			Kinds:      []string{"spinner", "barrier"},
			SpinMax:    2,
		},
		Platforms: TrackLayout{
			Capacity:   10,
			Spacing:    20,
			Lead:       16,
			Candidates: 0,
			Kinds:      []string{"platform"},
		},
		Scenery: CorridorScenery{
			Rings:       50,
			RingSpacing: 25,
			RingMargin:  10,
			Cubes:       100,
			CubeDepth:   200,
		},
		Session: CorridorSession{
			ResetTrackOnRestart: false,
			ReportDeniedJumps:   false,
			RequireLock:         true,
			Enclosure:           true,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 2000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				SpinMultiplier:  1.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "corridor":
		return defaultCorridorYAML
	default:
		return nil
	}
}
