// Package config provides YAML-based game configuration loading and
// difficulty management for the corridor runner.
package config

// CorridorConfig contains all configuration for the corridor runner.
type CorridorConfig struct {
	Physics    CorridorPhysics  `yaml:"physics"`
	Player     CorridorPlayer   `yaml:"player"`
	Obstacles  TrackLayout      `yaml:"obstacles"`
	Platforms  TrackLayout      `yaml:"platforms"`
	Scenery    CorridorScenery  `yaml:"scenery"`
	Session    CorridorSession  `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// CorridorPhysics defines world and character physics.
type CorridorPhysics struct {
	Gravity          float64 `yaml:"gravity"`           // Character gravity magnitude
	JumpSpeed        float64 `yaml:"jump_speed"`        // Upward speed at jump start
	Substeps         int     `yaml:"substeps"`          // Max engine substeps per tick
	FixedStep        float64 `yaml:"fixed_step"`        // Engine substep length in seconds
	FallThreshold    float64 `yaml:"fall_threshold"`    // Player y at or below which the run is lost
	ContactTolerance float64 `yaml:"contact_tolerance"` // Max contact distance that counts as a hit
}

// CorridorPlayer defines the player capsule.
type CorridorPlayer struct {
	Spawn  Vec3    `yaml:"spawn"`
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"` // Cylindrical section, total height adds 2*radius
	Speed  float64 `yaml:"speed"`  // Forward speed in units per second
}

// Vec3 is a YAML-friendly 3D point.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// TrackLayout defines one streaming window of track entities.
type TrackLayout struct {
	Capacity   int      `yaml:"capacity"`   // Live entities kept at all times
	Spacing    float64  `yaml:"spacing"`    // Distance between consecutive spawns
	Lead       float64  `yaml:"lead"`       // Distance of offset 0 ahead of the origin
	Candidates int      `yaml:"candidates"` // Collision candidates per tick
	Kinds      []string `yaml:"kinds"`      // "spinner", "barrier", "platform"
	SpinMax    float64  `yaml:"spin_max"`   // Max spin speed in radians per second
}

// CorridorScenery defines purely cosmetic elements.
type CorridorScenery struct {
	Rings       int     `yaml:"rings"`
	RingSpacing float64 `yaml:"ring_spacing"`
	RingMargin  float64 `yaml:"ring_margin"`
	Cubes       int     `yaml:"cubes"`
	CubeDepth   float64 `yaml:"cube_depth"` // Z span over which cubes are scattered
}

// CorridorSession defines run/restart behaviour.
type CorridorSession struct {
	ResetTrackOnRestart bool `yaml:"reset_track_on_restart"`
	ReportDeniedJumps   bool `yaml:"report_denied_jumps"`
	RequireLock         bool `yaml:"require_lock"` // Jumps only count while input is captured
	Enclosure           bool `yaml:"enclosure"`    // Walls and ceiling around the spawn plate
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "distance", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Distance/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to forward speed at max difficulty
	SpinMultiplier  float64 `yaml:"spin_multiplier"`  // Multiplier added to obstacle spin at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown values return "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
